package store

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS master_products (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    category    TEXT NOT NULL DEFAULT '',
    unit        TEXT NOT NULL DEFAULT 'EA',
    enabled     INTEGER NOT NULL DEFAULT 1,
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS master_operations (
    seq         INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS master_operation_standards (
    product_id        TEXT NOT NULL REFERENCES master_products(id),
    operation_seq     INTEGER NOT NULL REFERENCES master_operations(seq),
    standard_time_sec REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (product_id, operation_seq)
);

CREATE TABLE IF NOT EXISTS master_equipment (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    type          TEXT NOT NULL DEFAULT '',
    operation_seq INTEGER REFERENCES master_operations(seq),
    location      TEXT NOT NULL DEFAULT '',
    enabled       INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS master_defect_codes (
    code        TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS master_inspection_items (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    unit        TEXT NOT NULL DEFAULT '',
    lower_limit REAL,
    upper_limit REAL,
    target      REAL
);

CREATE TABLE IF NOT EXISTS work_orders (
    id          TEXT PRIMARY KEY,
    product_id  TEXT NOT NULL REFERENCES master_products(id),
    planned_qty INTEGER NOT NULL DEFAULT 0,
    due_date    TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'PLANNED',
    created_ts  TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    start_ts    TEXT,
    end_ts      TEXT
);
CREATE INDEX IF NOT EXISTS idx_work_orders_product ON work_orders(product_id);
CREATE INDEX IF NOT EXISTS idx_work_orders_status ON work_orders(status);

CREATE TABLE IF NOT EXISTS work_results (
    id            TEXT PRIMARY KEY,
    order_id      TEXT NOT NULL REFERENCES work_orders(id),
    operation_seq INTEGER NOT NULL,
    equipment_id  TEXT REFERENCES master_equipment(id),
    start_ts      TEXT NOT NULL,
    end_ts        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_work_results_order ON work_results(order_id);

CREATE TABLE IF NOT EXISTS quality_inspections (
    id              TEXT PRIMARY KEY,
    order_id        TEXT NOT NULL REFERENCES work_orders(id),
    product_id      TEXT NOT NULL REFERENCES master_products(id),
    inspection_qty  INTEGER NOT NULL DEFAULT 0,
    inspector       TEXT NOT NULL DEFAULT '',
    inspection_date TEXT NOT NULL,
    status          TEXT NOT NULL DEFAULT 'PENDING',
    notes           TEXT NOT NULL DEFAULT '',
    created_ts      TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_inspections_order ON quality_inspections(order_id);

CREATE TABLE IF NOT EXISTS quality_results (
    id            TEXT PRIMARY KEY,
    inspection_id TEXT NOT NULL REFERENCES quality_inspections(id),
    inspector     TEXT NOT NULL DEFAULT '',
    passed_qty    INTEGER NOT NULL DEFAULT 0,
    defect_qty    INTEGER NOT NULL DEFAULT 0,
    defect_code   TEXT REFERENCES master_defect_codes(code),
    defect_rate   REAL NOT NULL DEFAULT 0,
    start_ts      TEXT NOT NULL,
    end_ts        TEXT NOT NULL,
    duration_sec  INTEGER NOT NULL DEFAULT 0,
    notes         TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_quality_results_inspection ON quality_results(inspection_id);

CREATE TABLE IF NOT EXISTS admin_users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS outbox (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    topic       TEXT NOT NULL,
    payload     BLOB NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    plant_id    TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    sent_at     TEXT
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at) WHERE sent_at IS NULL;
`
