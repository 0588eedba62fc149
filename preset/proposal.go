package preset

import (
	"fmt"
	"strings"
)

// Proposal is an uncommitted preset update awaiting confirmation.
type Proposal struct {
	OperationID string `json:"operation_id"`
	Candidate   Preset `json:"candidate"`
}

// Review is a proposal together with its diff against the stored preset.
type Review struct {
	Title    string   `json:"title"`
	Proposal Proposal `json:"proposal"`
	Report   Report   `json:"report"`
}

// NewReview diffs p against existing, the preset currently stored for its
// operation or nil when there is none.
func NewReview(p Proposal, existing *Preset) Review {
	return Review{
		Title:    fmt.Sprintf("Update Preset for '%s'?", p.OperationID),
		Proposal: p,
		Report:   Diff(existing, p.Candidate),
	}
}

// Pending holds at most one proposal. Proposing while one is pending replaces
// it. The zero value is ready to use.
type Pending struct {
	current *Proposal
}

// Propose makes candidate the pending update for op, discarding any earlier
// proposal.
func (p *Pending) Propose(op string, candidate Preset) error {
	if strings.TrimSpace(op) == "" {
		return ErrBlankOperation
	}
	p.current = &Proposal{OperationID: op, Candidate: candidate.Clone()}
	return nil
}

// Current returns the pending proposal, if any.
func (p *Pending) Current() (Proposal, bool) {
	if p.current == nil {
		return Proposal{}, false
	}
	return *p.current, true
}

// Review diffs the pending proposal against store.
func (p *Pending) Review(store Store) (Review, bool) {
	cur, ok := p.Current()
	if !ok {
		return Review{}, false
	}
	var existing *Preset
	if store != nil {
		if stored, ok := store.Get(cur.OperationID); ok {
			existing = &stored
		}
	}
	return NewReview(cur, existing), true
}

// Confirm writes the pending proposal to store and clears it. On a write
// failure the proposal stays pending.
func (p *Pending) Confirm(store Store) (Proposal, error) {
	if p.current == nil {
		return Proposal{}, ErrNoPending
	}
	cur := *p.current
	if err := store.Upsert(cur.OperationID, cur.Candidate); err != nil {
		return Proposal{}, fmt.Errorf("save preset %q: %w", cur.OperationID, err)
	}
	p.current = nil
	return cur, nil
}

// Cancel discards the pending proposal.
func (p *Pending) Cancel() {
	p.current = nil
}
