package engine

import (
	"strings"

	"reputation-bot/internal/store"
)

func (e *Engine) StartPoll(chatID, creator int64, question string) (PollView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	question = strings.TrimSpace(question)
	if question == "" {
		return PollView{}, ErrEmptyQuestion
	}
	now := e.clock.Now()
	p := &poll{
		view: PollView{
			ID:        store.NewIDAt(now),
			ChatID:    chatID,
			Creator:   creator,
			Question:  question,
			CreatedAt: now,
		},
		voters: make(map[int64]struct{}),
	}
	e.polls[p.view.ID] = p
	e.pollOrder = append(e.pollOrder, p.view.ID)
	return p.view, nil
}

// VotePoll counts one yes/no vote per identity.
func (e *Engine) VotePoll(id string, voter int64, yes bool) (PollView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.polls[id]
	if !ok {
		return PollView{}, ErrUnknownPoll
	}
	if _, voted := p.voters[voter]; voted {
		return p.view, ErrAlreadyVoted
	}
	p.voters[voter] = struct{}{}
	if yes {
		p.view.Yes++
	} else {
		p.view.No++
	}
	return p.view, nil
}

func (e *Engine) Poll(id string) (PollView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.polls[id]
	if !ok {
		return PollView{}, ErrUnknownPoll
	}
	return p.view, nil
}

func (e *Engine) Polls() []PollView {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]PollView, 0, len(e.pollOrder))
	for _, id := range e.pollOrder {
		out = append(out, e.polls[id].view)
	}
	return out
}
