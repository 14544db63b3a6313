package domain

// OSHistogram counts computers per operating system name.
type OSHistogram map[string]int

// Add records one occurrence of os.
func (h OSHistogram) Add(os string) {
	h[os]++
}

// Merge adds every count of other into h.
func (h OSHistogram) Merge(other OSHistogram) {
	for os, n := range other {
		h[os] += n
	}
}

// Total returns the sum of all counts.
func (h OSHistogram) Total() int {
	var total int
	for _, n := range h {
		total += n
	}
	return total
}

// SumHistograms returns the key-wise sum of hs. The result does not depend on
// the order of hs.
func SumHistograms(hs ...OSHistogram) OSHistogram {
	sum := make(OSHistogram)
	for _, h := range hs {
		sum.Merge(h)
	}
	return sum
}

// HistogramFromNodes tallies properties.operatingsystem over nodes. Nodes
// without the property, or with a non-string value, are not counted.
func HistogramFromNodes(result *CypherResult) OSHistogram {
	h := make(OSHistogram)
	if result == nil {
		return h
	}
	for _, node := range result.Nodes {
		os, ok := node.Properties["operatingsystem"].(string)
		if !ok {
			continue
		}
		h.Add(os)
	}
	return h
}

// DomainInput bundles everything fetched for one domain.
type DomainInput struct {
	Ref            DomainRef
	Detail         *DomainDetail
	InboundTrusts  []string
	OutboundTrusts []string
	Computers      *CypherResult
	StaleUsers     *CypherResult
}

// BuildDomain assembles the summary of one domain.
func BuildDomain(in DomainInput) Domain {
	d := Domain{
		ID:                in.Ref.ID,
		Name:              in.Detail.StringProp("name"),
		Domain:            in.Detail.StringProp("domain"),
		DistinguishedName: in.Detail.StringProp("distinguishedname"),
		FunctionalLevel:   in.Detail.StringProp("functionallevel"),
		Computers: ComputerStats{
			OperatingSystems: HistogramFromNodes(in.Computers),
		},
		Users: UserStats{
			OldPwdLastSet: in.StaleUsers.NodeCount(),
		},
		InboundTrusts:  nonNil(in.InboundTrusts),
		OutboundTrusts: nonNil(in.OutboundTrusts),
	}
	if in.Detail != nil {
		d.Computers.Count = in.Detail.Computers
		d.Users.Count = in.Detail.Users
	}
	return d
}

// Aggregate wraps domains into a report and computes the global OS tally.
func Aggregate(domains []Domain) *AggregateReport {
	if domains == nil {
		domains = []Domain{}
	}
	hs := make([]OSHistogram, 0, len(domains))
	for _, d := range domains {
		hs = append(hs, d.Computers.OperatingSystems)
	}
	return &AggregateReport{
		Domains:   domains,
		Computers: GlobalComputers{OperatingSystems: SumHistograms(hs...)},
	}
}

// FindDomain returns the domain whose name matches, case-sensitively.
func (r *AggregateReport) FindDomain(name string) (Domain, bool) {
	for _, d := range r.Domains {
		if d.Name == name {
			return d, true
		}
	}
	return Domain{}, false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
