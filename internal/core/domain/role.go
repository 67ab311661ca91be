package domain

// RoleAdmin is the token role allowed to read the skipped-record audit trail.
const RoleAdmin = "admin"
