package domain

// ActorKind who triggers a transition
type ActorKind string

const (
	ActorSystem  ActorKind = "system"
	ActorAdmin   ActorKind = "admin"
	ActorStudent ActorKind = "student"
)

// IsValid returns true for known actor kinds
func (k ActorKind) IsValid() bool {
	return k == ActorSystem || k == ActorAdmin || k == ActorStudent
}

// Actor identifies the caller of a transition
type Actor struct {
	Kind ActorKind
	ID   string
}

// SystemActor is used by the scheduler and event consumers
var SystemActor = Actor{Kind: ActorSystem, ID: "system"}

type edge struct {
	from CreditStatus
	to   CreditStatus
}

// transitions lists every permitted edge of the credit state machine
// together with the actors allowed to trigger it
var transitions = map[edge][]ActorKind{
	{CreditStatusPending, CreditStatusAvailable}:   {ActorAdmin},
	{CreditStatusPending, CreditStatusCancelled}:   {ActorAdmin},
	{CreditStatusPending, CreditStatusExpired}:     {ActorSystem},
	{CreditStatusAvailable, CreditStatusBooked}:    {ActorStudent, ActorAdmin, ActorSystem},
	{CreditStatusAvailable, CreditStatusExpired}:   {ActorSystem},
	{CreditStatusAvailable, CreditStatusCancelled}: {ActorAdmin, ActorStudent},
	{CreditStatusBooked, CreditStatusUsed}:         {ActorSystem},
	{CreditStatusBooked, CreditStatusAvailable}:    {ActorSystem, ActorAdmin},
	{CreditStatusBooked, CreditStatusExpired}:      {ActorSystem},
}

// IsEdge returns true if the state machine has an edge from -> to
func IsEdge(from, to CreditStatus) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// CanTransition returns true if the actor may move a credit from -> to
func CanTransition(from, to CreditStatus, actor ActorKind) bool {
	allowed, ok := transitions[edge{from, to}]
	if !ok {
		return false
	}
	for _, kind := range allowed {
		if kind == actor {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given one
func NextStatuses(from CreditStatus) []CreditStatus {
	next := make([]CreditStatus, 0, 3)
	for _, to := range []CreditStatus{
		CreditStatusPending, CreditStatusAvailable, CreditStatusBooked,
		CreditStatusUsed, CreditStatusExpired, CreditStatusCancelled,
	} {
		if IsEdge(from, to) {
			next = append(next, to)
		}
	}
	return next
}
