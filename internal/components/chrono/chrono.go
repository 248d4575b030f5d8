package chrono

import "time"

// LoadLocation resolves an IANA timezone name, the empty string and "Local"
// both mean the system timezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
