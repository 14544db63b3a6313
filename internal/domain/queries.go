package domain

import (
	"fmt"
	"strings"
)

// StalePasswordDays is the age after which a password counts as stale.
const StalePasswordDays = 90

const (
	computerQueryTemplate = `MATCH (n:Computer) WHERE n.domain = "%s" RETURN n`

	// -1 and 0 mean the password was never set.
	stalePasswordQueryTemplate = `MATCH (u:User) WHERE u.pwdlastset < (datetime().epochseconds - (%d * 86400)) and NOT u.pwdlastset IN [-1.0, 0.0] and u.domain = "%s" RETURN u`
)

var cypherStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// ComputerQuery returns every computer node of domainName.
func ComputerQuery(domainName string) string {
	return fmt.Sprintf(computerQueryTemplate, cypherStringEscaper.Replace(domainName))
}

// StalePasswordQuery returns the users of domainName whose password was last
// set more than StalePasswordDays ago.
func StalePasswordQuery(domainName string) string {
	return fmt.Sprintf(stalePasswordQueryTemplate, StalePasswordDays, cypherStringEscaper.Replace(domainName))
}
