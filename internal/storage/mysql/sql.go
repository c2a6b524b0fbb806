package mysql

const getSQL = `
SELECT v FROM session_kv
WHERE k = ? AND (expires_at IS NULL OR expires_at > ?)
`

const upsertSQL = `
INSERT INTO session_kv
  (k, v, expires_at)
VALUES
  (?, ?, ?)
ON DUPLICATE KEY UPDATE
  v          = VALUES(v),
  expires_at = VALUES(expires_at),
  updated_at = CURRENT_TIMESTAMP
`

// deletePrefix is completed with one placeholder per key.
const deletePrefix = "DELETE FROM session_kv WHERE k IN "

const purgeExpiredSQL = `
DELETE FROM session_kv
WHERE expires_at IS NOT NULL AND expires_at <= ?
`
