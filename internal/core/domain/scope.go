package domain

// Identity is the caller resolved from a verified bearer token.
type Identity struct {
	UserID string
}

// Scope bounds which student records a query can see.
// The zero value is Unscoped.
type Scope struct {
	ownerID string
}

// Unscoped matches records of every owner, including unowned ones.
func Unscoped() Scope { return Scope{} }

// Owned matches only records created by userID.
func Owned(userID string) Scope { return Scope{ownerID: userID} }

// ScopeFor returns Owned for an authenticated caller and Unscoped otherwise.
func ScopeFor(id *Identity) Scope {
	if id == nil || id.UserID == "" {
		return Unscoped()
	}
	return Owned(id.UserID)
}

// OwnerID returns the owner the scope is bound to, if any.
func (s Scope) OwnerID() (string, bool) {
	return s.ownerID, s.ownerID != ""
}

func (s Scope) String() string {
	if s.ownerID == "" {
		return "unscoped"
	}
	return "owned:" + s.ownerID
}

// CanMutate reports whether id may update or delete the record.
// An owned record requires the owner; an unowned one accepts any identity.
func CanMutate(record *Student, id *Identity) bool {
	if id == nil || id.UserID == "" {
		return false
	}
	if !record.IsOwned() {
		return true
	}
	return record.CreatedBy == id.UserID
}
