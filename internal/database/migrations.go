package database

const schema = `
CREATE TABLE IF NOT EXISTS countries (
    position INTEGER NOT NULL PRIMARY KEY,
    cca2 TEXT NOT NULL DEFAULT '',
    cca3 TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_countries_cca2 ON countries (cca2);
CREATE INDEX IF NOT EXISTS idx_countries_cca3 ON countries (cca3);
`
