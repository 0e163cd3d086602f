package automation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"smartoffice/internal/models"
	"smartoffice/internal/utils"
)

// ErrRuleNotFound is returned when a rule ID does not exist in the store.
var ErrRuleNotFound = errors.New("rule not found")

// RuleStorage is the persistence boundary for the rule collection. The
// storage package implements it over Redis.
type RuleStorage interface {
	LoadRuleDocument(ctx context.Context) (models.RuleDocument, error)
	SaveRuleDocument(ctx context.Context, doc models.RuleDocument) error
}

// Store owns the rule collection. All reads and writes go through a single
// mutex so concurrent API calls and evaluation passes never interleave a
// read-modify-write on the persisted document.
type Store struct {
	mu      sync.Mutex
	storage RuleStorage
}

func NewStore(storage RuleStorage) *Store {
	return &Store{storage: storage}
}

// List returns all rules in their stored order. Evaluation walks this exact
// order; priority is informational only.
func (s *Store) List(ctx context.Context) ([]models.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.storage.LoadRuleDocument(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Rules, nil
}

// Get returns a single rule by ID.
func (s *Store) Get(ctx context.Context, id string) (*models.Rule, error) {
	rules, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rules {
		if rules[i].ID == id {
			return &rules[i], nil
		}
	}
	return nil, ErrRuleNotFound
}

// Create validates and appends a new rule. IDs, timestamps and execution
// counters are always assigned here, whatever the caller sent.
func (s *Store) Create(ctx context.Context, rule models.Rule) (*models.Rule, error) {
	if err := ValidateRule(rule); err != nil {
		return nil, err
	}
	now := time.Now()
	rule.ID = utils.NewID()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	rule.ExecutionCount = 0
	rule.LastTriggered = nil
	if rule.Source == "" {
		rule.Source = models.SourceUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.storage.LoadRuleDocument(ctx)
	if err != nil {
		return nil, err
	}
	doc.Rules = append(doc.Rules, rule)
	if err := s.storage.SaveRuleDocument(ctx, doc); err != nil {
		return nil, err
	}
	return &rule, nil
}

// Update applies a partial edit to an existing rule via the apply callback
// and re-validates the result. Execution counters and the creation stamp are
// preserved regardless of what the callback does.
func (s *Store) Update(ctx context.Context, id string, apply func(*models.Rule)) (*models.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.storage.LoadRuleDocument(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Rules {
		if doc.Rules[i].ID != id {
			continue
		}
		prev := doc.Rules[i]
		apply(&doc.Rules[i])
		doc.Rules[i].ID = prev.ID
		doc.Rules[i].CreatedAt = prev.CreatedAt
		doc.Rules[i].ExecutionCount = prev.ExecutionCount
		doc.Rules[i].LastTriggered = prev.LastTriggered
		doc.Rules[i].UpdatedAt = time.Now()
		if err := ValidateRule(doc.Rules[i]); err != nil {
			return nil, err
		}
		if err := s.storage.SaveRuleDocument(ctx, doc); err != nil {
			return nil, err
		}
		updated := doc.Rules[i]
		return &updated, nil
	}
	return nil, ErrRuleNotFound
}

// Delete removes a rule by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.storage.LoadRuleDocument(ctx)
	if err != nil {
		return err
	}
	for i := range doc.Rules {
		if doc.Rules[i].ID == id {
			doc.Rules = append(doc.Rules[:i], doc.Rules[i+1:]...)
			return s.storage.SaveRuleDocument(ctx, doc)
		}
	}
	return ErrRuleNotFound
}

// SetEnabled toggles a single rule on or off.
func (s *Store) SetEnabled(ctx context.Context, id string, enabled bool) (*models.Rule, error) {
	return s.Update(ctx, id, func(r *models.Rule) {
		r.Enabled = enabled
	})
}

// SetAllEnabled toggles every rule and returns how many were changed.
func (s *Store) SetAllEnabled(ctx context.Context, enabled bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.storage.LoadRuleDocument(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	now := time.Now()
	for i := range doc.Rules {
		if doc.Rules[i].Enabled != enabled {
			doc.Rules[i].Enabled = enabled
			doc.Rules[i].UpdatedAt = now
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.storage.SaveRuleDocument(ctx, doc)
}

// Export returns the rule collection for download.
func (s *Store) Export(ctx context.Context) ([]models.Rule, error) {
	return s.List(ctx)
}

// Import appends uploaded rules to the collection. Every imported rule gets
// a fresh identity and zeroed counters; invalid entries abort the whole
// import so a bad file cannot half-apply.
func (s *Store) Import(ctx context.Context, rules []models.Rule) (int, error) {
	now := time.Now()
	for i := range rules {
		if err := ValidateRule(rules[i]); err != nil {
			return 0, fmt.Errorf("rule %d: %w", i, err)
		}
		rules[i].ID = utils.NewID()
		rules[i].CreatedAt = now
		rules[i].UpdatedAt = now
		rules[i].ExecutionCount = 0
		rules[i].LastTriggered = nil
		if rules[i].Source == "" {
			rules[i].Source = models.SourceUser
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.storage.LoadRuleDocument(ctx)
	if err != nil {
		return 0, err
	}
	doc.Rules = append(doc.Rules, rules...)
	if err := s.storage.SaveRuleDocument(ctx, doc); err != nil {
		return 0, err
	}
	return len(rules), nil
}

// RecordExecution bumps the execution counter and trigger timestamp of a
// fired rule. This is the only write path for those fields.
func (s *Store) RecordExecution(ctx context.Context, id string, at time.Time) (*models.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.storage.LoadRuleDocument(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Rules {
		if doc.Rules[i].ID != id {
			continue
		}
		doc.Rules[i].ExecutionCount++
		ts := at
		doc.Rules[i].LastTriggered = &ts
		doc.Rules[i].UpdatedAt = at
		if err := s.storage.SaveRuleDocument(ctx, doc); err != nil {
			return nil, err
		}
		updated := doc.Rules[i]
		return &updated, nil
	}
	return nil, ErrRuleNotFound
}
