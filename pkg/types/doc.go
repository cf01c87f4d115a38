// Package types defines the Item record, the Registry interface, backend
// configuration, and the standard error values for the storeroom item
// registry.
//
// A Registry keeps two indexes over the same items: a primary index keyed by
// item ID, authoritative for existence, and a secondary index keyed by
// description, used only to enumerate items in description order.
package types
