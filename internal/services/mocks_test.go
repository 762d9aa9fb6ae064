package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"eventsquare/internal/domain"
)

// memStore is an in-memory store fixture shared by the service tests. Repos
// are views over its slices; WithinTx runs the callback directly.
type memStore struct {
	events       []*domain.Event
	users        map[string]*domain.EventUser
	participants []*domain.Participant
	applicants   []*domain.Applicant

	seq int

	eventErr       error
	userErr        error
	participantErr error
	applicantErr   error
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*domain.EventUser{}}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func (s *memStore) Repos() domain.Repos {
	return domain.Repos{
		Events:       &memEventRepo{s},
		EventUsers:   &memEventUserRepo{s},
		Participants: &memParticipantRepo{s},
		Applicants:   &memApplicantRepo{s},
		Users:        &memUserRepo{s},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, r domain.Repos) error) error {
	return fn(ctx, s.Repos())
}

type memEventRepo struct{ s *memStore }

func (r *memEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if r.s.eventErr != nil {
		return r.s.eventErr
	}
	if e.ID == "" {
		e.ID = r.s.nextID("e")
	}
	r.s.events = append(r.s.events, e)
	return nil
}

func (r *memEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if r.s.eventErr != nil {
		return r.s.eventErr
	}
	for i, existing := range r.s.events {
		if existing.ID == e.ID {
			r.s.events[i] = e
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if r.s.eventErr != nil {
		return nil, r.s.eventErr
	}
	for _, e := range r.s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memEventRepo) LockByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *memEventRepo) ListPromotable(ctx context.Context, eventIDs []string, now time.Time) ([]*domain.Event, error) {
	if r.s.eventErr != nil {
		return nil, r.s.eventErr
	}
	wanted := map[string]bool{}
	for _, id := range eventIDs {
		wanted[id] = true
	}
	var out []*domain.Event
	for _, e := range r.s.events {
		if !e.StartTime.After(now) {
			continue
		}
		if len(wanted) > 0 && !wanted[e.ID] {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memEventRepo) List(ctx context.Context, hidden *bool, p domain.PaginationParams) ([]*domain.Event, int, error) {
	if r.s.eventErr != nil {
		return nil, 0, r.s.eventErr
	}
	var out []*domain.Event
	for _, e := range r.s.events {
		if hidden != nil && e.Hidden != *hidden {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func (r *memEventRepo) ListPublic(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	if r.s.eventErr != nil {
		return nil, r.s.eventErr
	}
	var out []*domain.Event
	for _, e := range r.s.events {
		if e.Hidden || e.PublishedAt == nil || e.PublishedAt.After(now) || !e.EndTime.After(now) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type memEventUserRepo struct{ s *memStore }

func (r *memEventUserRepo) Create(ctx context.Context, u *domain.EventUser) error {
	if r.s.userErr != nil {
		return r.s.userErr
	}
	if u.ID == "" {
		u.ID = r.s.nextID("u")
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *memEventUserRepo) GetByID(ctx context.Context, id string) (*domain.EventUser, error) {
	if r.s.userErr != nil {
		return nil, r.s.userErr
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type memParticipantRepo struct{ s *memStore }

func (r *memParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	if r.s.participantErr != nil {
		return r.s.participantErr
	}
	if p.ID == "" {
		p.ID = r.s.nextID("p")
	}
	r.s.participants = append(r.s.participants, p)
	return nil
}

func (r *memParticipantRepo) GetByCancelToken(ctx context.Context, token string) (*domain.Participant, error) {
	if r.s.participantErr != nil {
		return nil, r.s.participantErr
	}
	for _, p := range r.s.participants {
		if p.CancelToken == token {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memParticipantRepo) CountActiveByEvent(ctx context.Context, eventID string) (int, error) {
	if r.s.participantErr != nil {
		return 0, r.s.participantErr
	}
	count := 0
	for _, p := range r.s.participants {
		if p.EventID == eventID && p.CanceledAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *memParticipantRepo) GetByEventUser(ctx context.Context, eventUserID string) (*domain.Participant, error) {
	if r.s.participantErr != nil {
		return nil, r.s.participantErr
	}
	for _, p := range r.s.participants {
		if p.EventUserID == eventUserID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memParticipantRepo) Cancel(ctx context.Context, id string, at time.Time) error {
	if r.s.participantErr != nil {
		return r.s.participantErr
	}
	for _, p := range r.s.participants {
		if p.ID == id && p.CanceledAt == nil {
			t := at
			p.CanceledAt = &t
			p.UpdatedAt = at
		}
	}
	return nil
}

func (r *memParticipantRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.ParticipantWithUser, error) {
	if r.s.participantErr != nil {
		return nil, r.s.participantErr
	}
	var out []*domain.ParticipantWithUser
	for _, p := range r.s.participants {
		if p.EventID == eventID {
			out = append(out, &domain.ParticipantWithUser{Participant: p, User: r.s.users[p.EventUserID]})
		}
	}
	return out, nil
}

type memApplicantRepo struct{ s *memStore }

func (r *memApplicantRepo) Create(ctx context.Context, a *domain.Applicant) error {
	if r.s.applicantErr != nil {
		return r.s.applicantErr
	}
	if a.ID == "" {
		a.ID = r.s.nextID("a")
	}
	r.s.applicants = append(r.s.applicants, a)
	return nil
}

func (r *memApplicantRepo) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	if r.s.applicantErr != nil {
		return nil, r.s.applicantErr
	}
	for _, a := range r.s.applicants {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memApplicantRepo) GetByCancelToken(ctx context.Context, token string) (*domain.Applicant, error) {
	if r.s.applicantErr != nil {
		return nil, r.s.applicantErr
	}
	for _, a := range r.s.applicants {
		if a.CancelToken == token {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memApplicantRepo) CountPendingByEvent(ctx context.Context, eventID string, now time.Time) (int, error) {
	if r.s.applicantErr != nil {
		return 0, r.s.applicantErr
	}
	count := 0
	for _, a := range r.s.applicants {
		if a.EventID == eventID && a.CanceledAt == nil && (a.Deadline == nil || a.Deadline.After(now)) {
			count++
		}
	}
	return count, nil
}

func (r *memApplicantRepo) CountActiveByEvent(ctx context.Context, eventID string) (int, error) {
	if r.s.applicantErr != nil {
		return 0, r.s.applicantErr
	}
	count := 0
	for _, a := range r.s.applicants {
		if a.EventID == eventID && a.CanceledAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *memApplicantRepo) ListEligibleByEvent(ctx context.Context, eventID string, now time.Time) ([]*domain.ApplicantWithUser, error) {
	if r.s.applicantErr != nil {
		return nil, r.s.applicantErr
	}
	var out []*domain.ApplicantWithUser
	for _, a := range r.s.applicants {
		if a.EventID != eventID || a.CanceledAt != nil || a.ParticipantableNotifiedAt != nil {
			continue
		}
		if a.Deadline != nil && !a.Deadline.After(now) {
			continue
		}
		out = append(out, &domain.ApplicantWithUser{Applicant: a, User: r.s.users[a.EventUserID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Applicant.CreatedAt.Equal(out[j].Applicant.CreatedAt) {
			return out[i].Applicant.ID < out[j].Applicant.ID
		}
		return out[i].Applicant.CreatedAt.Before(out[j].Applicant.CreatedAt)
	})
	return out, nil
}

func (r *memApplicantRepo) Promote(ctx context.Context, id string, deadline, notifiedAt time.Time) error {
	if r.s.applicantErr != nil {
		return r.s.applicantErr
	}
	for _, a := range r.s.applicants {
		if a.ID == id {
			d, n := deadline, notifiedAt
			a.Deadline = &d
			a.ParticipantableNotifiedAt = &n
			a.UpdatedAt = notifiedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memApplicantRepo) ListOverDeadline(ctx context.Context, eventIDs []string, now time.Time) ([]*domain.ApplicantRecord, error) {
	if r.s.applicantErr != nil {
		return nil, r.s.applicantErr
	}
	wanted := map[string]bool{}
	for _, id := range eventIDs {
		wanted[id] = true
	}
	var out []*domain.ApplicantRecord
	for _, a := range r.s.applicants {
		if a.DeadlineNotifiedAt != nil || a.CanceledAt != nil {
			continue
		}
		if a.Deadline == nil || a.Deadline.After(now) {
			continue
		}
		if len(wanted) > 0 && !wanted[a.EventID] {
			continue
		}
		var summary *domain.EventSummary
		for _, e := range r.s.events {
			if e.ID == a.EventID {
				summary = e.Summary()
			}
		}
		out = append(out, &domain.ApplicantRecord{Applicant: a, User: r.s.users[a.EventUserID], Event: summary})
	}
	return out, nil
}

func (r *memApplicantRepo) Expire(ctx context.Context, id string, at time.Time) error {
	if r.s.applicantErr != nil {
		return r.s.applicantErr
	}
	for _, a := range r.s.applicants {
		if a.ID == id {
			t := at
			a.CanceledAt = &t
			a.DeadlineNotifiedAt = &t
			a.UpdatedAt = at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memApplicantRepo) Cancel(ctx context.Context, id string, at time.Time) error {
	if r.s.applicantErr != nil {
		return r.s.applicantErr
	}
	for _, a := range r.s.applicants {
		if a.ID == id && a.CanceledAt == nil {
			t := at
			a.CanceledAt = &t
			a.UpdatedAt = at
		}
	}
	return nil
}

func (r *memApplicantRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.ApplicantWithUser, error) {
	if r.s.applicantErr != nil {
		return nil, r.s.applicantErr
	}
	var out []*domain.ApplicantWithUser
	for _, a := range r.s.applicants {
		if a.EventID == eventID {
			out = append(out, &domain.ApplicantWithUser{Applicant: a, User: r.s.users[a.EventUserID]})
		}
	}
	return out, nil
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

// recordingEmailService captures notification calls for assertions.
type recordingEmailService struct {
	confirmed  []*domain.RegistrationEmailData
	waitlisted []*domain.RegistrationEmailData
	offers     []*domain.PromotionOfferEmailData
	expired    []*domain.DeadlineExpiredEmailData
	err        error
}

func (m *recordingEmailService) SendRegistrationConfirmed(ctx context.Context, data *domain.RegistrationEmailData) error {
	m.confirmed = append(m.confirmed, data)
	return m.err
}

func (m *recordingEmailService) SendWaitlisted(ctx context.Context, data *domain.RegistrationEmailData) error {
	m.waitlisted = append(m.waitlisted, data)
	return m.err
}

func (m *recordingEmailService) SendPromotionOffer(ctx context.Context, data *domain.PromotionOfferEmailData) error {
	m.offers = append(m.offers, data)
	return m.err
}

func (m *recordingEmailService) SendDeadlineExpired(ctx context.Context, data *domain.DeadlineExpiredEmailData) error {
	m.expired = append(m.expired, data)
	return m.err
}
