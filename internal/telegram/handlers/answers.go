package handlers

import (
	"strconv"
	"time"

	"github.com/futig/faq-backend/internal/entity"
	"github.com/patrickmn/go-cache"
)

// AnswerStore remembers the last answer of every chat so it can be
// downloaded from the inline keyboard.
type AnswerStore struct {
	answers *cache.Cache
}

func NewAnswerStore(ttl time.Duration) *AnswerStore {
	return &AnswerStore{answers: cache.New(ttl, 2*ttl)}
}

func (s *AnswerStore) Put(chatID int64, answer *entity.Answer) {
	s.answers.SetDefault(chatKey(chatID), answer)
}

func (s *AnswerStore) Get(chatID int64) (*entity.Answer, bool) {
	v, ok := s.answers.Get(chatKey(chatID))
	if !ok {
		return nil, false
	}
	return v.(*entity.Answer), true
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
