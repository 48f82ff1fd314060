package mysql

// seq preserves approval order; review_id is unique so INSERT IGNORE is idempotent.
const createApprovalsSQL = `
CREATE TABLE IF NOT EXISTS review_approvals (
  seq         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
  review_id   VARCHAR(191)    NOT NULL,
  approved_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE KEY uq_review_approvals_review_id (review_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const insertApprovalSQL = `INSERT IGNORE INTO review_approvals (review_id) VALUES (?)`

const deleteApprovalSQL = `DELETE FROM review_approvals WHERE review_id = ?`

const listApprovalsSQL = `
SELECT review_id
FROM review_approvals
ORDER BY seq
`
