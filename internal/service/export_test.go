package service

// DefaultSearchLimit re-exports defaultSearchLimit for external test packages.
const DefaultSearchLimit = defaultSearchLimit
