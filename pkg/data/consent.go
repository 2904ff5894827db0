package data

// Consent is a per-user opt-out flag. No row means consent is granted.
type Consent struct {
	UserID  int64
	CanSave bool
}
