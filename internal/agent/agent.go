/*
Package agent orchestrates the full message pipeline: classify the intent,
reason over the catalog, generate a response, record the interaction for
learning, and trace every stage.

Rule-handled intents answer deterministically. Anything the rules cannot
answer confidently is routed to the external fallback channel; if the
channel fails, the deterministic generator still produces an answer, so
ProcessMessage degrades rather than erroring on fallback trouble.
*/
package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/intent"
	"github.com/askdeck/askdeck/internal/learning"
	"github.com/askdeck/askdeck/internal/llm"
	"github.com/askdeck/askdeck/internal/reason"
	"github.com/askdeck/askdeck/internal/respond"
	"github.com/askdeck/askdeck/internal/session"
	"github.com/askdeck/askdeck/internal/trace"
)

// fallbackThreshold is the minimum classification confidence below which a
// message is routed to the fallback channel instead of the rule pipeline.
const fallbackThreshold = 0.6

// recommendedCap bounds the tool ids attributed to one interaction.
const recommendedCap = 5

// Agent wires the pipeline services together.
type Agent struct {
	records  []catalog.Record
	engine   *reason.Engine
	gen      *respond.Generator
	learn    *learning.Service
	tracer   *trace.Service
	fallback llm.Channel
	sessions *session.Pool
	log      *logrus.Logger

	// turnMu serializes turns. The tracer keeps a single current trace,
	// so an interleaved turn would force-close this one's trace mid-flight
	// and strand its open spans.
	turnMu sync.Mutex
}

// Result is the outcome of one processed message.
type Result struct {
	Response     string  `json:"response"`
	SessionID    string  `json:"sessionId"`
	IntentType   string  `json:"intentType"`
	Confidence   float64 `json:"confidence"`
	FallbackUsed bool    `json:"fallbackUsed"`
	LatencyMs    int64   `json:"latencyMs"`
}

// New creates an agent. fallback may be nil, in which case low-confidence
// messages are answered by the deterministic generator.
func New(records []catalog.Record, engine *reason.Engine, gen *respond.Generator, learn *learning.Service, tracer *trace.Service, fallback llm.Channel, sessions *session.Pool, log *logrus.Logger) *Agent {
	if log == nil {
		log = logrus.New()
	}
	return &Agent{
		records:  records,
		engine:   engine,
		gen:      gen,
		learn:    learn,
		tracer:   tracer,
		fallback: fallback,
		sessions: sessions,
		log:      log,
	}
}

// ShouldUseEnhancedAgent reports whether the rule pipeline would handle the
// message itself rather than deferring to the fallback channel.
func ShouldUseEnhancedAgent(text string) bool {
	it := intent.Classify(text)
	return qualifies(it)
}

// qualifies reports whether an intent stays on the deterministic path.
func qualifies(it intent.Intent) bool {
	if it.Confidence < fallbackThreshold {
		return false
	}
	return it.Type != intent.GeneralQuestion
}

// ProcessMessage runs one user message through the pipeline and returns the
// response. A blank sessionID starts a new session.
func (a *Agent) ProcessMessage(ctx context.Context, userID, sessionID, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, fmt.Errorf("empty message")
	}

	a.turnMu.Lock()
	defer a.turnMu.Unlock()

	started := time.Now()
	sess := a.sessions.GetOrCreate(sessionID, userID)

	a.tracer.StartTrace(text, map[string]interface{}{
		"userId":    userID,
		"sessionId": sess.ID,
	})

	classifySpan := a.tracer.StartSpan("classification", "classify intent", nil, "")
	it := intent.Classify(text)
	a.tracer.AddSpanEvent(classifySpan, trace.EventComplete, fmt.Sprintf("classified as %s", it.Type), map[string]interface{}{
		"confidence": it.Confidence,
	})
	a.tracer.EndSpan(classifySpan, trace.StatusSuccess)

	var response string
	var recommended []string
	fallbackUsed := false

	if qualifies(it) {
		response, recommended = a.answerDeterministic(userID, text, it, sess)
	} else {
		response, fallbackUsed = a.answerFallback(ctx, userID, text, sess)
		if !fallbackUsed {
			// Fallback unavailable or failed; the generator always answers.
			response, recommended = a.answerDeterministic(userID, text, it, sess)
		}
	}

	latency := time.Since(started)

	a.learn.RecordInteraction(learning.NewInteraction(
		uuid.NewString(), userID, sess.ID, text, it, response, recommended, latency,
	))
	sess.Append(text, response)

	a.tracer.EndTrace(map[string]interface{}{
		"intentType":   string(it.Type),
		"fallbackUsed": fallbackUsed,
	})

	return Result{
		Response:     response,
		SessionID:    sess.ID,
		IntentType:   string(it.Type),
		Confidence:   it.Confidence,
		FallbackUsed: fallbackUsed,
		LatencyMs:    latency.Milliseconds(),
	}, nil
}

// answerDeterministic runs the reasoning and generation stages.
func (a *Agent) answerDeterministic(userID, text string, it intent.Intent, sess *session.Session) (string, []string) {
	var recommended []string

	if it.Type == intent.ToolRecommendation {
		reasonSpan := a.tracer.StartSpan("reasoning", "run inference chain", nil, "")
		expertise, preferred := a.learn.ReasoningContext(userID)
		chain := a.engine.Reason(text, it, a.records, &reason.Context{
			UserExpertise:   expertise,
			PreviousQueries: sess.UserQueries(),
			PreferredTools:  preferred,
		})
		for i, c := range chain.Candidates {
			if i >= recommendedCap {
				break
			}
			recommended = append(recommended, c.Record.ID)
		}
		a.tracer.AddSpanEvent(reasonSpan, trace.EventComplete, chain.Conclusion, map[string]interface{}{
			"candidates": len(chain.Candidates),
			"confidence": chain.OverallConfidence,
		})
		a.tracer.EndSpan(reasonSpan, trace.StatusSuccess)
	}

	genSpan := a.tracer.StartSpan("generation", "generate response", nil, "")
	response := a.gen.Generate(it, text, userID, a.records)
	a.tracer.EndSpan(genSpan, trace.StatusSuccess)
	return response, recommended
}

// answerFallback routes one message to the fallback channel. The second
// return is false when the channel is absent or failed.
func (a *Agent) answerFallback(ctx context.Context, userID, text string, sess *session.Session) (string, bool) {
	if a.fallback == nil {
		return "", false
	}

	span := a.tracer.StartSpan("fallback", "call fallback channel", nil, "")
	messages := append(sess.History(), llm.Message{Role: "user", Content: text})
	response, err := a.fallback.Complete(ctx, a.systemPrompt(), messages)
	if err != nil {
		a.log.WithError(err).WithField("userId", userID).Warn("Fallback channel failed, using deterministic generator")
		a.tracer.AddSpanEvent(span, trace.EventError, err.Error(), nil)
		a.tracer.EndSpan(span, trace.StatusError)
		return "", false
	}
	a.tracer.EndSpan(span, trace.StatusSuccess)
	return response, true
}

// systemPrompt renders the catalog excerpt handed to the fallback channel.
func (a *Agent) systemPrompt() string {
	var b strings.Builder
	b.WriteString("You are the assistant for an internal AI tool catalog. ")
	b.WriteString("Answer briefly and only recommend tools from this catalog:\n\n")
	for _, r := range a.records {
		fmt.Fprintf(&b, "- %s (%s): %s\n", r.Name, r.Type, r.Purpose)
	}
	b.WriteString("\nIf the question is unrelated to the catalog, say what the catalog covers instead.")
	return b.String()
}
