package storage

const schema = `
-- One row per Leitner box, position 0 is box 1.
CREATE TABLE IF NOT EXISTS boxes (
    position INTEGER PRIMARY KEY,
    capacity INTEGER NOT NULL CHECK (capacity > 0)
);

-- Every card of the deck. container is 'stash', 'queue' or 'done'; box is
-- only meaningful for queued cards. position keeps the order inside a
-- container.
CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    container TEXT NOT NULL CHECK (container IN ('stash', 'queue', 'done')),
    box INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS cards_order ON cards (container, box, position);
`
