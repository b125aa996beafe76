package domain

import "fmt"

// PropertyProfile identifies one GA4 property and the credential used to
// read it. Profiles are loaded from an INI registry file; the numeric
// property ID and the service-account key path stay out-of-band.
type PropertyProfile struct {
	Name            string
	PropertyID      string
	CredentialsFile string
}

func (p PropertyProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Name, p.PropertyID)
}
