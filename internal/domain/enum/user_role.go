package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// UserRole represents the access level of a user
type UserRole int

const (
	UserRoleStaff UserRole = 0
	UserRoleAdmin UserRole = 1
)

var userRoleNames = [...]string{"staff", "admin"}

func (r UserRole) String() string {
	if r < 0 || int(r) >= len(userRoleNames) {
		return "unknown"
	}
	return userRoleNames[r]
}

// IsValid reports whether r is a known role
func (r UserRole) IsValid() bool {
	return r == UserRoleStaff || r == UserRoleAdmin
}

// ParseUserRole maps a role name to its value
func ParseUserRole(s string) (UserRole, error) {
	for i, name := range userRoleNames {
		if name == s {
			return UserRole(i), nil
		}
	}
	return UserRoleStaff, fmt.Errorf("unknown role %q", s)
}

func (r UserRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *UserRole) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*r = UserRole(i)
		return nil
	}
	role, err := ParseUserRole(str)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

func (r UserRole) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *UserRole) Scan(value interface{}) error {
	if value == nil {
		*r = UserRoleStaff
		return nil
	}
	switch v := value.(type) {
	case int64:
		*r = UserRole(v)
	case int:
		*r = UserRole(v)
	}
	return nil
}
