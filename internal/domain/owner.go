package domain

// CartOwner identifies who a cart (or wishlist) belongs to: an authenticated
// user or an anonymous session. Exactly one of the two is set.
type CartOwner struct {
	userID    string
	sessionID string
}

func UserOwner(userID string) CartOwner {
	return CartOwner{userID: userID}
}

func GuestOwner(sessionID string) CartOwner {
	return CartOwner{sessionID: sessionID}
}

func (o CartOwner) UserID() (string, bool) {
	return o.userID, o.userID != ""
}

func (o CartOwner) SessionID() (string, bool) {
	return o.sessionID, o.sessionID != ""
}

func (o CartOwner) IsZero() bool {
	return o.userID == "" && o.sessionID == ""
}

func (o CartOwner) String() string {
	if o.userID != "" {
		return "user:" + o.userID
	}
	if o.sessionID != "" {
		return "session:" + o.sessionID
	}
	return "none"
}
