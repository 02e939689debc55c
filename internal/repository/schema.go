package repository

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id             TEXT PRIMARY KEY,
		full_name      TEXT NOT NULL DEFAULT '',
		email          TEXT NOT NULL DEFAULT '',
		phone          TEXT NOT NULL DEFAULT '',
		gender         TEXT NOT NULL DEFAULT '',
		age            INTEGER NOT NULL DEFAULT 0,
		occupation     TEXT NOT NULL DEFAULT '',
		marital_status TEXT NOT NULL DEFAULT '',
		location       TEXT NOT NULL DEFAULT '',
		monthly_income NUMERIC(20, 2) NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount     NUMERIC(20, 2) NOT NULL CHECK (amount >= 0),
		type       TEXT NOT NULL CHECK (type IN ('income', 'expense')),
		category   TEXT NOT NULL DEFAULT '',
		note       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_created_idx ON transactions (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		loan_type       TEXT NOT NULL DEFAULT '',
		name            TEXT NOT NULL DEFAULT '',
		monthly_payment NUMERIC(20, 2) NOT NULL DEFAULT 0 CHECK (monthly_payment >= 0),
		total_months    INTEGER NOT NULL DEFAULT 0 CHECK (total_months >= 0),
		months_paid     INTEGER NOT NULL DEFAULT 0 CHECK (months_paid >= 0),
		interest_rate   NUMERIC(9, 4) NOT NULL DEFAULT 0,
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS loans_user_idx ON loans (user_id)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		value      NUMERIC(20, 2) NOT NULL CHECK (value >= 0),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS assets_user_idx ON assets (user_id)`,
	`CREATE TABLE IF NOT EXISTS financial_dependents (
		user_id          TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		dependents_count INTEGER NOT NULL DEFAULT 0 CHECK (dependents_count >= 0),
		updated_at       TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS credit_history (
		user_id             TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		total_loans_taken   INTEGER NOT NULL DEFAULT 0 CHECK (total_loans_taken >= 0),
		missed_payments     INTEGER NOT NULL DEFAULT 0 CHECK (missed_payments >= 0),
		has_default_history BOOLEAN NOT NULL DEFAULT FALSE,
		last_updated        TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS risk_scores (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		risk_level      TEXT NOT NULL CHECK (risk_level IN ('Low', 'Medium', 'High', 'Unknown')),
		explanation     TEXT NOT NULL DEFAULT '',
		generated_by_ai BOOLEAN NOT NULL DEFAULT TRUE,
		last_calculated TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS risk_scores_user_calculated_idx ON risk_scores (user_id, last_calculated DESC)`,
	`CREATE TABLE IF NOT EXISTS chatrooms (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS chatrooms_user_updated_idx ON chatrooms (user_id, updated_at DESC)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		seq         BIGSERIAL,
		id          TEXT PRIMARY KEY,
		chatroom_id TEXT NOT NULL REFERENCES chatrooms(id) ON DELETE CASCADE,
		role        TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
		content     TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS chat_messages_room_seq_idx ON chat_messages (chatroom_id, seq)`,
}
