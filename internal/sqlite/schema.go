package sqlite

// Schema DDL. The items table is the primary index; item_descriptions is the
// description index and holds one item ID per description.
const (
	createItems = `CREATE TABLE items (
    item_id TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    location TEXT NOT NULL
);`

	createItemDescriptions = `CREATE TABLE item_descriptions (
    description TEXT PRIMARY KEY,
    item_id TEXT NOT NULL,
    FOREIGN KEY (item_id) REFERENCES items(item_id)
);`
)

// Index DDL.
const (
	idxItemDescriptionsItem = `CREATE INDEX idx_item_descriptions_item ON item_descriptions(item_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createItems,
	createItemDescriptions,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxItemDescriptionsItem,
}
