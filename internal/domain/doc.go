// Package domain defines the core types of the filtered server map.
//
// # Filters
//
// Filter narrows the server map to calls between two application nodes. A
// filter list is kept as raw JSON records (FilterList) so that fields written
// by other clients survive a merge. Two filters are the same filter when their
// canonical keys match; traffic from a USER node is keyed by its service type
// alone, since every user node is labeled differently.
//
// # Hints
//
// A hint restricts the remote calls shown for a node label. LongHint is the
// typed form ({label: [{rpc, rpcServiceTypeCode}]}); ShortHint is the flat
// form carried in addresses ({label: [rpc, code, ...]}). Both are LabelMaps,
// which keep labels in insertion order.
//
// # Navigation
//
// NavigationState is the previously serialized state read from the address
// bar. View persists one such state under a name.
package domain
