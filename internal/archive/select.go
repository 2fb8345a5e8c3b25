package archive

// Outcome is the result of a Run.
type Outcome int

const (
	// OutcomeNoMethod means no candidate was available and nothing was done.
	OutcomeNoMethod Outcome = iota
	// OutcomeDone means the operation ran with the first available method and succeeded.
	OutcomeDone
	// OutcomeFailed means the operation ran with the first available method and failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeFailed:
		return "failed"
	default:
		return "no-method"
	}
}

// Run calls op once with the first available method of candidates.
// Later candidates are never tried, even when op fails. An empty or
// fully unavailable candidate list yields OutcomeNoMethod without calling op.
func Run(candidates []Method, op func(Method) error) (Outcome, Method, error) {
	for _, m := range candidates {
		if !Available(m) {
			continue
		}
		if err := op(m); err != nil {
			return OutcomeFailed, m, err
		}
		return OutcomeDone, m, nil
	}
	return OutcomeNoMethod, 0, nil
}

// ArchiveWith archives src into dst with the first available method of candidates.
// The Result is nil unless the outcome is OutcomeDone.
func (a *Archiver) ArchiveWith(candidates []Method, src, dst string) (Outcome, *Result, error) {
	var res *Result
	outcome, _, err := Run(candidates, func(m Method) error {
		var err error
		res, err = a.Archive(src, dst, m)
		return err
	})
	return outcome, res, err
}
