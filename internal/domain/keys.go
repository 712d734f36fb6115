package domain

// KeyPrefix prefixes every recall key in the object store.
var KeyPrefix = "recall:"
