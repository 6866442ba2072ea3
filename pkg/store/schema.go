package store

const schema = `
CREATE TABLE IF NOT EXISTS characters (
	id INT PRIMARY KEY,
	name TEXT,
	status TEXT,
	species TEXT,
	origin TEXT
);
`
