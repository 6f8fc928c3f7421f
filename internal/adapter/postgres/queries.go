package postgres

// Schema creates the settings table. Rows of one destination are applied in
// id order so a later row for the same key wins.
const Schema = `
CREATE TABLE IF NOT EXISTS destination_settings (
	id          BIGSERIAL PRIMARY KEY,
	destination TEXT NOT NULL,
	key         TEXT NOT NULL,
	value       TEXT NOT NULL DEFAULT '',
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_destination_settings_destination
	ON destination_settings (destination);
`

const queryListDestinations = `
SELECT DISTINCT destination
FROM destination_settings
ORDER BY destination`

const queryDestinationSettings = `
SELECT key, value
FROM destination_settings
WHERE destination = $1
ORDER BY id`
