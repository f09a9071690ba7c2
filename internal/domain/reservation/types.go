package reservation

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusWaitlist  Status = "waitlist"
	StatusSeated    Status = "seated"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusWaitlist, StatusSeated,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed from s.
// Seated is not terminal (it can still complete) but is excluded from
// cancellation and modification.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsActive reports whether the reservation still holds (or may hold) a table
// for its slot. Active reservations are the ones availability counts against.
func (s Status) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusWaitlist:
		return true
	default:
		return false
	}
}

// transitions is the lifecycle rule table. A target status not present for the
// current status is rejected.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusSeated, StatusNoShow},
	StatusWaitlist:  {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCancelled, StatusSeated, StatusNoShow},
	StatusSeated:    {StatusCompleted},
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

type Source string

const (
	SourceWebsite    Source = "website"
	SourcePhone      Source = "phone"
	SourceWalkIn     Source = "walk_in"
	SourceThirdParty Source = "third_party"
	SourceApp        Source = "app"
)

func (s Source) String() string {
	return string(s)
}

func (s Source) IsValid() bool {
	switch s {
	case SourceWebsite, SourcePhone, SourceWalkIn, SourceThirdParty, SourceApp:
		return true
	default:
		return false
	}
}
