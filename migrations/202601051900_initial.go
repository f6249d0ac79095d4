package migrations

import "github.com/AdamDubois/home-serveur/lib"

var _ = lib.RegisterMigration("202601051900_initial", func(c *lib.Ctx) {
	c.DB.Execute(`
CREATE TABLE sessions (
  id text NOT NULL PRIMARY KEY,
  data text NOT NULL,
  expires datetime NOT NULL,
  created datetime NOT NULL,
  updated datetime NOT NULL
);

CREATE TABLE expenses (
  id text NOT NULL PRIMARY KEY,
  amount real NOT NULL,
  category text NOT NULL,
  necessity_level text NOT NULL,
  expense_date text NOT NULL,
  description text NOT NULL DEFAULT '',
  payment_method text NOT NULL DEFAULT '',
  created datetime NOT NULL
);
CREATE INDEX expenses_expense_date_idx ON expenses (expense_date);

CREATE TABLE pings (
  id text NOT NULL PRIMARY KEY,
  timestamp datetime NOT NULL,
  host text NOT NULL,
  packets_transmitted integer NOT NULL,
  packets_received integer NOT NULL,
  packet_loss real NOT NULL,
  min_latency real,
  avg_latency real,
  max_latency real,
  stddev_latency real,
  status text NOT NULL
);
CREATE INDEX pings_timestamp_idx ON pings (timestamp);
CREATE INDEX pings_host_idx ON pings (host);
  `)
}, func(c *lib.Ctx) {
	c.DB.Execute(`
DROP TABLE pings;
DROP TABLE expenses;
DROP TABLE sessions;
  `)
})
