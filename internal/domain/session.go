package domain

// SessionSnapshotKey is the key-value entry holding the signed-in account.
const SessionSnapshotKey = "helpdesk_user"
