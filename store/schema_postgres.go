package store

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS master_products (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    category    TEXT NOT NULL DEFAULT '',
    unit        TEXT NOT NULL DEFAULT 'EA',
    enabled     BOOLEAN NOT NULL DEFAULT TRUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS master_operations (
    seq         INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS master_operation_standards (
    product_id        TEXT NOT NULL REFERENCES master_products(id),
    operation_seq     INTEGER NOT NULL REFERENCES master_operations(seq),
    standard_time_sec DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (product_id, operation_seq)
);

CREATE TABLE IF NOT EXISTS master_equipment (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    type          TEXT NOT NULL DEFAULT '',
    operation_seq INTEGER REFERENCES master_operations(seq),
    location      TEXT NOT NULL DEFAULT '',
    enabled       BOOLEAN NOT NULL DEFAULT TRUE
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
    lower_limit DOUBLE PRECISION,
    upper_limit DOUBLE PRECISION,
    target      DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS work_orders (
    id          TEXT PRIMARY KEY,
    product_id  TEXT NOT NULL REFERENCES master_products(id),
    planned_qty INTEGER NOT NULL DEFAULT 0,
    due_date    TIMESTAMPTZ NOT NULL,
    status      TEXT NOT NULL DEFAULT 'PLANNED',
    created_ts  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    start_ts    TIMESTAMPTZ,
    end_ts      TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_work_orders_product ON work_orders(product_id);
CREATE INDEX IF NOT EXISTS idx_work_orders_status ON work_orders(status);

CREATE TABLE IF NOT EXISTS work_results (
    id            TEXT PRIMARY KEY,
    order_id      TEXT NOT NULL REFERENCES work_orders(id),
    operation_seq INTEGER NOT NULL,
    equipment_id  TEXT REFERENCES master_equipment(id),
    start_ts      TIMESTAMPTZ NOT NULL,
    end_ts        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_work_results_order ON work_results(order_id);

CREATE TABLE IF NOT EXISTS quality_inspections (
    id              TEXT PRIMARY KEY,
    order_id        TEXT NOT NULL REFERENCES work_orders(id),
    product_id      TEXT NOT NULL REFERENCES master_products(id),
    inspection_qty  INTEGER NOT NULL DEFAULT 0,
    inspector       TEXT NOT NULL DEFAULT '',
    inspection_date TIMESTAMPTZ NOT NULL,
    status          TEXT NOT NULL DEFAULT 'PENDING',
    notes           TEXT NOT NULL DEFAULT '',
    created_ts      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_inspections_order ON quality_inspections(order_id);

CREATE TABLE IF NOT EXISTS quality_results (
    id            TEXT PRIMARY KEY,
    inspection_id TEXT NOT NULL REFERENCES quality_inspections(id),
    inspector     TEXT NOT NULL DEFAULT '',
    passed_qty    INTEGER NOT NULL DEFAULT 0,
    defect_qty    INTEGER NOT NULL DEFAULT 0,
    defect_code   TEXT REFERENCES master_defect_codes(code),
    defect_rate   DOUBLE PRECISION NOT NULL DEFAULT 0,
    start_ts      TIMESTAMPTZ NOT NULL,
    end_ts        TIMESTAMPTZ NOT NULL,
    duration_sec  INTEGER NOT NULL DEFAULT 0,
    notes         TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_quality_results_inspection ON quality_results(inspection_id);

CREATE TABLE IF NOT EXISTS admin_users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS outbox (
    id          BIGSERIAL PRIMARY KEY,
    topic       TEXT NOT NULL,
    payload     BYTEA NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    plant_id    TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    sent_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at) WHERE sent_at IS NULL;
`
