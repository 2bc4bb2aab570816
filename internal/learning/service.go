package learning

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/storage"
)

const (
	// interactionCap bounds the interaction ring buffer (FIFO eviction).
	interactionCap = 1000

	// recencyCap bounds the per-user preferred-tool and frequent-query lists.
	recencyCap = 20

	// expertiseWindow is the trailing interaction window for expertise.
	expertiseWindow = 10
)

// Personalization weights for re-scoring candidates.
const (
	weightPreferredTool       = 3.0
	weightPreferredCapability = 2.0
	weightSuccessRate         = 5.0
)

// Service owns the interaction history, the preference map and the learning
// model. Not safe for concurrent writers without its internal mutex; all
// exported methods take it.
type Service struct {
	mu           sync.Mutex
	interactions []Interaction
	preferences  map[string]*UserPreference
	model        *Model
	store        storage.Storage
	log          *logrus.Logger
	capacity     int
}

// NewService creates the learning service, loads persisted state and
// rebuilds the model by replaying the interaction history.
func NewService(store storage.Storage, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Service{
		preferences: make(map[string]*UserPreference),
		model:       NewModel(),
		store:       store,
		log:         log,
		capacity:    interactionCap,
	}

	if store != nil {
		if err := store.Init(); err != nil {
			log.Warnf("learning storage unavailable, continuing in-memory: %v", err)
		}
		s.loadState()
	}
	s.model.Replay(s.interactions)

	return s
}

// RecordInteraction appends one turn to the bounded history, upserts the
// caller's preference profile and feeds the learning model.
func (s *Service) RecordInteraction(it Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interactions = append(s.interactions, it)
	if len(s.interactions) > s.capacity {
		s.interactions = s.interactions[len(s.interactions)-s.capacity:]
	}

	s.upsertPreference(it)
	s.model.applyToolOutcome(it)
	s.model.applySatisfaction(it)

	s.persist()
}

// RecordFeedback locates the interaction by session id and back-fills its
// feedback fields exactly once, then updates the model and counters.
// Returns false if no interaction matches or feedback was already recorded.
func (s *Service) RecordFeedback(sessionID string, feedback Feedback, satisfaction int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Most recent matching turn wins.
	for i := len(s.interactions) - 1; i >= 0; i-- {
		if s.interactions[i].SessionID != sessionID {
			continue
		}
		if s.interactions[i].Feedback != "" {
			return false
		}

		s.interactions[i].Feedback = feedback
		if satisfaction >= 1 && satisfaction <= 5 {
			s.interactions[i].Satisfaction = satisfaction
		}

		s.model.applyFeedback(s.interactions[i])
		s.model.applySatisfaction(s.interactions[i])
		s.model.applyCounters(feedback, s.interactions[i].Satisfaction)

		s.persist()
		return true
	}
	return false
}

// GetUserPreferences returns a copy of the profile for a user id, or nil if
// the user has no history.
func (s *Service) GetUserPreferences(userID string) *UserPreference {
	s.mu.Lock()
	defer s.mu.Unlock()

	pref, ok := s.preferences[userID]
	if !ok {
		return nil
	}
	copied := *pref
	return &copied
}

// Model returns a deep copy of the current learning model.
func (s *Service) Model() *Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyModel()
}

// Interactions returns a copy of the interaction history, oldest first.
func (s *Service) Interactions() []Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Interaction, len(s.interactions))
	copy(out, s.interactions)
	return out
}

// ScoredRecord pairs a catalog record with its personalization score.
type ScoredRecord struct {
	Record catalog.Record
	Score  float64
}

// PersonalizedRecommendations re-scores candidates by the user's preferred
// tools and capabilities plus historical recommendation success, descending.
func (s *Service) PersonalizedRecommendations(userID string, candidates []catalog.Record) []ScoredRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	pref := s.preferences[userID]

	scored := make([]ScoredRecord, 0, len(candidates))
	for _, r := range candidates {
		score := weightSuccessRate * s.model.SuccessRate(r.ID)

		if pref != nil {
			if containsFold(pref.PreferredTools, r.Name) || containsFold(pref.PreferredTools, r.ID) {
				score += weightPreferredTool
			}
			for _, capKey := range pref.PreferredCapabilities {
				if r.Capabilities.Has(catalog.CapabilityKey(capKey)) {
					score += weightPreferredCapability
				}
			}
		}

		scored = append(scored, ScoredRecord{Record: r, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Record.Name < scored[j].Record.Name
	})
	return scored
}

// ClearLearningData resets all learning state and persists the empty state.
func (s *Service) ClearLearningData() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interactions = nil
	s.preferences = make(map[string]*UserPreference)
	s.model = NewModel()
	s.persist()
}

// --- preference derivation ---

// upsertPreference merges one interaction into the user's profile.
// Caller holds the mutex.
func (s *Service) upsertPreference(it Interaction) {
	pref, ok := s.preferences[it.UserID]
	if !ok {
		pref = &UserPreference{
			UserID:         it.UserID,
			LearningStyle:  StyleBalanced,
			ExpertiseLevel: ExpertiseBeginner,
		}
		s.preferences[it.UserID] = pref
	}

	if it.SelectedTool != "" {
		pref.PreferredTools = appendRecency(pref.PreferredTools, it.SelectedTool, recencyCap)
	}
	for _, capKey := range catalog.DetectCapabilities(it.Query) {
		pref.PreferredCapabilities = appendRecency(pref.PreferredCapabilities, string(capKey), recencyCap)
	}
	pref.FrequentQueries = appendRecency(pref.FrequentQueries, it.Query, recencyCap)

	words := len(strings.Fields(it.Query))
	switch {
	case words > 20:
		pref.LearningStyle = StyleDetailed
	case words < 5:
		pref.LearningStyle = StyleConcise
	default:
		pref.LearningStyle = StyleBalanced
	}

	pref.ExpertiseLevel = s.deriveExpertise(it.UserID)

	n := float64(pref.InteractionCount)
	pref.AvgQueryLength = (pref.AvgQueryLength*n + float64(words)) / (n + 1)
	pref.AvgResponseTimeMs = (pref.AvgResponseTimeMs*n + float64(it.ResponseTimeMs)) / (n + 1)
	pref.InteractionCount++

	if now := time.Now(); now.After(pref.LastUpdated) {
		pref.LastUpdated = now
	}
}

// deriveExpertise looks at the user's last 10 interactions: the fraction
// whose query exceeds 15 words decides the level. Caller holds the mutex.
func (s *Service) deriveExpertise(userID string) string {
	var window []Interaction
	for i := len(s.interactions) - 1; i >= 0 && len(window) < expertiseWindow; i-- {
		if s.interactions[i].UserID == userID {
			window = append(window, s.interactions[i])
		}
	}
	if len(window) == 0 {
		return ExpertiseBeginner
	}

	long := 0
	for _, it := range window {
		if len(strings.Fields(it.Query)) > 15 {
			long++
		}
	}
	frac := float64(long) / float64(len(window))

	switch {
	case frac > 0.7:
		return ExpertiseAdvanced
	case frac > 0.3:
		return ExpertiseIntermediate
	}
	return ExpertiseBeginner
}

// --- persistence ---

// persist snapshots both state records to the durable store. Failures are
// logged and swallowed; the conversational flow never sees them.
// Caller holds the mutex.
func (s *Service) persist() {
	if s.store == nil {
		return
	}

	if data, err := json.Marshal(s.interactions); err != nil {
		s.log.Warnf("failed to marshal interactions: %v", err)
	} else if err := s.store.SaveState(storage.KeyInteractions, data); err != nil {
		s.log.Warnf("failed to persist interactions: %v", err)
	}

	if data, err := json.Marshal(preferencePairs(s.preferences)); err != nil {
		s.log.Warnf("failed to marshal preferences: %v", err)
	} else if err := s.store.SaveState(storage.KeyPreferences, data); err != nil {
		s.log.Warnf("failed to persist preferences: %v", err)
	}
}

// loadState restores both state records from the durable store.
func (s *Service) loadState() {
	if data, err := s.store.LoadState(storage.KeyInteractions); err != nil {
		s.log.Warnf("failed to load interactions: %v", err)
	} else if len(data) > 0 {
		if err := json.Unmarshal(data, &s.interactions); err != nil {
			s.log.Warnf("failed to parse interactions: %v", err)
			s.interactions = nil
		}
		if len(s.interactions) > s.capacity {
			s.interactions = s.interactions[len(s.interactions)-s.capacity:]
		}
	}

	if data, err := s.store.LoadState(storage.KeyPreferences); err != nil {
		s.log.Warnf("failed to load preferences: %v", err)
	} else if len(data) > 0 {
		var pairs []preferencePair
		if err := json.Unmarshal(data, &pairs); err != nil {
			s.log.Warnf("failed to parse preferences: %v", err)
			return
		}
		for _, p := range pairs {
			pref := p.Preference
			s.preferences[p.UserID] = &pref
		}
	}
}

// preferencePair is the persisted [userId, UserPreference] pair shape.
type preferencePair struct {
	UserID     string         `json:"userId"`
	Preference UserPreference `json:"preference"`
}

func preferencePairs(prefs map[string]*UserPreference) []preferencePair {
	ids := make([]string, 0, len(prefs))
	for id := range prefs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pairs := make([]preferencePair, 0, len(ids))
	for _, id := range ids {
		pairs = append(pairs, preferencePair{UserID: id, Preference: *prefs[id]})
	}
	return pairs
}

// copyModel deep-copies the model. Caller holds the mutex.
func (s *Service) copyModel() *Model {
	copied := &Model{
		IntentAccuracy:        make(map[string]float64, len(s.model.IntentAccuracy)),
		ToolSuccess:           make(map[string]float64, len(s.model.ToolSuccess)),
		ResponseEffectiveness: make(map[string]float64, len(s.model.ResponseEffectiveness)),
		Misclassifications:    append([]Misclassification(nil), s.model.Misclassifications...),
		TotalFeedback:         s.model.TotalFeedback,
		PositiveFeedback:      s.model.PositiveFeedback,
		NegativeFeedback:      s.model.NegativeFeedback,
		SatisfactionCount:     s.model.SatisfactionCount,
		AverageSatisfaction:   s.model.AverageSatisfaction,
	}
	for k, v := range s.model.IntentAccuracy {
		copied.IntentAccuracy[k] = v
	}
	for k, v := range s.model.ToolSuccess {
		copied.ToolSuccess[k] = v
	}
	for k, v := range s.model.ResponseEffectiveness {
		copied.ResponseEffectiveness[k] = v
	}
	return copied
}

func appendRecency(list []string, item string, limit int) []string {
	for i, existing := range list {
		if strings.EqualFold(existing, item) {
			// Move to the back (most recent).
			list = append(append(list[:i:i], list[i+1:]...), item)
			return list
		}
	}
	list = append(list, item)
	if len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list
}

func containsFold(list []string, item string) bool {
	for _, v := range list {
		if strings.EqualFold(v, item) {
			return true
		}
	}
	return false
}

// ReasoningContext converts a user's profile into the reasoning engine's
// context signals: expertise level and preferred tool names.
func (s *Service) ReasoningContext(userID string) (string, []string) {
	pref := s.GetUserPreferences(userID)
	if pref == nil {
		return "", nil
	}
	return pref.ExpertiseLevel, append([]string(nil), pref.PreferredTools...)
}
