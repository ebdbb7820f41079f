package session

import (
	"github.com/aksjaiswal/stanverse/pkg/models/chat"
)

// dftSystemPrompt keeps the assistant in persona and aware of its memory.
const dftSystemPrompt = "You are Stanverse, a highly conversational, friendly, and supportive AI powered by Groq. " +
	"You have access to the user's previous conversation history. Use this history to adapt your tone, " +
	"remember preferences, and ensure a human-like, authentic dialogue. " +
	"Engage in natural, human-like dialogue, using a warm, encouraging tone. " +
	"Keep responses engaging and easy to read. DO NOT break character or mention you are an AI model."

// Truncator decides which prior messages stay in the prompt. The default
// keeps everything, matching the unbounded-replay behavior; alternatives
// plug in here without touching the assembler.
type Truncator interface {
	Truncate(prior chat.Messages) chat.Messages
}

// KeepAll replays the full history.
type KeepAll struct{}

func (KeepAll) Truncate(prior chat.Messages) chat.Messages { return prior }

// RecentN keeps only the last N prior messages.
type RecentN struct{ N int }

func (t RecentN) Truncate(prior chat.Messages) chat.Messages {
	if t.N <= 0 || len(prior) <= t.N {
		return prior
	}
	return prior[len(prior)-t.N:]
}

// Assembler builds the model-facing message list: one system instruction,
// the prior messages verbatim and in order, then the new utterance as the
// final user turn.
type Assembler struct {
	System string
	Trunc  Truncator
}

func NewAssembler(system string, trunc Truncator) *Assembler {
	if len(system) == 0 {
		system = dftSystemPrompt
	}
	if trunc == nil {
		trunc = KeepAll{}
	}
	return &Assembler{System: system, Trunc: trunc}
}

func (a *Assembler) Build(prior chat.Messages, question string) chat.Messages {
	prior = a.Trunc.Truncate(prior)
	out := make(chat.Messages, 0, len(prior)+2)
	out = append(out, chat.Message{Role: chat.RoleSystem, Content: a.System})
	out = append(out, prior...)
	out = append(out, chat.Message{Role: chat.RoleUser, Content: question})
	return out
}
