package types

// DirectoryUser is a full user document from the directory API. The
// single-user flow round-trips the whole record on update (the API
// requires a full PUT), so fields stay schemaless and only the handful
// the flow inspects get accessors.
type DirectoryUser map[string]any

func (u DirectoryUser) Id() string {
	s, _ := u["Id"].(string)
	return s
}

func (u DirectoryUser) UserName() string {
	s, _ := u["UserName"].(string)
	return s
}

// Active returns the user's active flag and whether it was present as a
// boolean at all.
func (u DirectoryUser) Active() (bool, bool) {
	b, ok := u["Active"].(bool)
	return b, ok
}

// WithActive copies the user with the Active flag set.
func (u DirectoryUser) WithActive(active bool) DirectoryUser {
	out := make(DirectoryUser, len(u)+1)
	for k, v := range u {
		out[k] = v
	}
	out["Active"] = active
	return out
}
