package usecases

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"papelariabot/internal/entities"
	"papelariabot/internal/infrastructure"
	"papelariabot/internal/interfaces"
)

const (
	senderQueueSize   = 16
	workerIdleTimeout = 10 * time.Minute
)

// DispatchEngine turns one inbound message into zero or more outbound
// actions. Messages from different senders dispatch concurrently; messages
// from the same sender are processed strictly in arrival order by a
// dedicated worker, so session state is never touched by two overlapping
// dispatches.
type DispatchEngine struct {
	messenger  interfaces.Messenger
	responder  interfaces.Responder
	uploader   interfaces.Uploader
	notifier   interfaces.Notifier
	sessions   *infrastructure.SessionStore
	access     *AccessFilter
	catalog    *Catalog
	classifier *IntentClassifier
	log        *slog.Logger

	loc             *time.Location
	typingDelay     time.Duration
	defaultLeadTime time.Duration
	now             func() time.Time

	mu      sync.Mutex
	workers map[string]*senderWorker
}

type senderWorker struct {
	ch chan entities.InboundMessage
}

// EngineDeps collects the collaborators of the engine.
type EngineDeps struct {
	Messenger interfaces.Messenger
	Responder interfaces.Responder
	Uploader  interfaces.Uploader
	Notifier  interfaces.Notifier
	Sessions  *infrastructure.SessionStore
	Access    *AccessFilter
	Catalog   *Catalog
	Log       *slog.Logger
}

// NewDispatchEngine wires the decision pipeline.
func NewDispatchEngine(deps EngineDeps, loc *time.Location, typingDelay, defaultLeadTime time.Duration) *DispatchEngine {
	return &DispatchEngine{
		messenger:       deps.Messenger,
		responder:       deps.Responder,
		uploader:        deps.Uploader,
		notifier:        deps.Notifier,
		sessions:        deps.Sessions,
		access:          deps.Access,
		catalog:         deps.Catalog,
		classifier:      NewIntentClassifier(deps.Catalog.Size()),
		log:             deps.Log,
		loc:             loc,
		typingDelay:     typingDelay,
		defaultLeadTime: defaultLeadTime,
		now:             time.Now,
		workers:         make(map[string]*senderWorker),
	}
}

// HandleMessage enqueues msg on its sender's worker, creating one when the
// sender has none. Enqueueing never blocks; a full queue drops the message.
func (e *DispatchEngine) HandleMessage(msg entities.InboundMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, ok := e.workers[msg.SenderID]
	if !ok {
		w = &senderWorker{ch: make(chan entities.InboundMessage, senderQueueSize)}
		e.workers[msg.SenderID] = w
		go e.runWorker(msg.SenderID, w)
	}

	select {
	case w.ch <- msg:
	default:
		e.log.Warn("sender queue full, dropping message", "sender", msg.SenderID)
	}
}

func (e *DispatchEngine) runWorker(senderID string, w *senderWorker) {
	idle := time.NewTimer(workerIdleTimeout)
	defer idle.Stop()

	for {
		select {
		case msg := <-w.ch:
			e.Process(msg)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(workerIdleTimeout)
		case <-idle.C:
			e.mu.Lock()
			if len(w.ch) == 0 {
				delete(e.workers, senderID)
				e.mu.Unlock()
				return
			}
			e.mu.Unlock()
			idle.Reset(workerIdleTimeout)
		}
	}
}

// Process runs the full decision pipeline for one message. It never
// panics out and never surfaces internal errors to the reply channel.
func (e *DispatchEngine) Process(msg entities.InboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("dispatch panic recovered", "sender", msg.SenderID, "panic", r)
		}
	}()

	if !e.access.Accepts(msg) {
		if msg.IsGroup {
			e.log.Info("ignoring group message", "sender", msg.SenderID)
		} else {
			e.log.Warn("ignoring blocked sender", "sender", msg.SenderID)
		}
		return
	}

	// Closed hours short-circuit before classification; a pending feedback
	// prompt must survive untouched.
	if !IsOpen(e.now(), e.loc) {
		e.send(msg.SenderID, ReplyClosedHours)
		return
	}

	cls := e.classifier.Classify(msg, e.sessions.AwaitingFeedback(msg.SenderID))
	e.log.Info("message classified", "sender", msg.SenderID, "intent", cls.Intent.String())

	switch cls.Intent {
	case entities.IntentGreeting:
		e.handleGreeting(msg)
	case entities.IntentServiceSelect:
		e.handleServiceSelect(msg, cls.ServiceCode)
	case entities.IntentFileUpload:
		e.handleFileUpload(msg)
	case entities.IntentFeedbackYes, entities.IntentFeedbackNo:
		e.handleFeedback(msg, cls.Intent)
	case entities.IntentPaymentQuery:
		e.send(msg.SenderID, ReplyPaymentInstructions)
	default:
		e.handleFallback(msg)
	}

	e.sessions.Update(msg.SenderID, func(sess *infrastructure.Session) {
		sess.LastIntent = cls.Intent
		sess.UpdatedAt = e.now()
	})
}

func (e *DispatchEngine) handleGreeting(msg entities.InboundMessage) {
	// Typing pause simulates human pacing; only this sender's worker waits.
	if err := e.messenger.SendTyping(msg.SenderID); err != nil {
		e.log.Warn("typing indicator failed", "sender", msg.SenderID, "err", err)
	}
	if e.typingDelay > 0 {
		time.Sleep(e.typingDelay)
	}
	e.send(msg.SenderID, e.catalog.MenuMessage(firstName(msg.PushName)))
	e.sessions.Update(msg.SenderID, func(sess *infrastructure.Session) {
		sess.State = entities.StateMenuShown
	})
}

func (e *DispatchEngine) handleServiceSelect(msg entities.InboundMessage, code int) {
	opt, ok := e.catalog.Lookup(code)
	if !ok {
		e.send(msg.SenderID, ReplyReprompt)
		return
	}
	e.send(msg.SenderID, SelectionMessage(opt))
	e.notifier.Schedule(msg.SenderID, opt.LeadTime, ReadyMessage(opt))
	e.sessions.Update(msg.SenderID, func(sess *infrastructure.Session) {
		sess.LastServiceCode = code
		sess.State = entities.StateServiceChosen
	})
}

func (e *DispatchEngine) handleFileUpload(msg entities.InboundMessage) {
	rec, err := e.uploader.Store(context.Background(), msg)
	if err != nil {
		e.log.Error("file intake failed", "sender", msg.SenderID, "err", err)
		e.send(msg.SenderID, ReplyStorageFailed)
		return
	}
	e.send(msg.SenderID, ReceiptMessage(rec))
	e.notifier.Schedule(msg.SenderID, e.defaultLeadTime, UploadReadyMessage())
	e.send(msg.SenderID, ReplyFeedbackPrompt)
	e.sessions.Update(msg.SenderID, func(sess *infrastructure.Session) {
		sess.AwaitingFeedback = true
		sess.State = entities.StateAwaitingFeedback
	})
}

func (e *DispatchEngine) handleFeedback(msg entities.InboundMessage, intent entities.Intent) {
	e.sessions.Update(msg.SenderID, func(sess *infrastructure.Session) {
		sess.AwaitingFeedback = false
		sess.State = entities.StateIdle
	})
	if intent == entities.IntentFeedbackYes {
		e.send(msg.SenderID, ReplyFeedbackThanks)
		return
	}
	e.send(msg.SenderID, ReplyFeedbackSorry)
}

func (e *DispatchEngine) handleFallback(msg entities.InboundMessage) {
	answer, err := e.responder.Infer(context.Background(), msg.Text)
	if err != nil {
		e.log.Warn("fallback inference failed", "sender", msg.SenderID, "err", err)
		e.send(msg.SenderID, ReplyFallbackApology)
		return
	}
	e.send(msg.SenderID, answer)
}

// send delivers text, retrying a failed send once before dropping it.
// Transport errors never reach the customer as text.
func (e *DispatchEngine) send(to, text string) {
	err := e.messenger.SendText(to, text)
	if err == nil {
		return
	}
	e.log.Warn("send failed, retrying", "sender", to, "err", err)
	if err := e.messenger.SendText(to, text); err != nil {
		e.log.Error("send failed after retry, dropped", "sender", to, "err", err)
	}
}

func firstName(pushName string) string {
	name := strings.TrimSpace(pushName)
	if name == "" {
		return ""
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
