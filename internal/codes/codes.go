// Package codes generates the unique identifiers the ledger hands out:
// numeric payment references, human-readable ticket codes and purchase
// tokens. The backing store enforces no uniqueness, so every generator
// rejection-samples against a caller-supplied "already used" predicate built
// from freshly read state.
package codes

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
)

const (
	symbolMin = 10000000
	symbolMax = 99999999

	identityCandidates = 4
)

// NewSymbol picks a payment reference that isUsed accepts. Candidates
// derived from the buyer's identity are tried first so a buyer retrying a
// submission tends to land on the same reference; random candidates follow
// once those are taken. Runs until the predicate accepts.
func NewSymbol(seed []string, isUsed func(int) bool) int {
	span := symbolMax - symbolMin + 1

	for i := 0; i < identityCandidates; i++ {
		candidate := symbolMin + int(identityHash(seed, i)%uint64(span))
		if !isUsed(candidate) {
			return candidate
		}
	}

	for {
		candidate := symbolMin + rand.IntN(span)
		if !isUsed(candidate) {
			return candidate
		}
	}
}

func identityHash(seed []string, round int) uint64 {
	h := fnv.New64a()
	for _, s := range seed {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	h.Write([]byte(strconv.Itoa(round)))
	return h.Sum64()
}

// NewTicketCode samples an adjective-noun pair until isUsed rejects it. The
// adjective inflects to the noun's gender; free codes get a gender-agreed
// "volny-/volne-/volna-" prefix.
func NewTicketCode(isUsed func(string) bool, free bool) string {
	for {
		adj := adjectives[rand.IntN(len(adjectives))]
		nn := nouns[rand.IntN(len(nouns))]

		code := adj.form(nn.gender) + "-" + nn.word
		if free {
			code = freePrefixes[nn.gender] + code
		}

		if isUsed == nil || !isUsed(code) {
			return code
		}
	}
}

// NewTicketCodes mints n codes that collide neither with each other nor
// with anything isUsed already rejects.
func NewTicketCodes(n int, isUsed func(string) bool, free bool) []string {
	batch := make([]string, 0, n)
	for i := 0; i < n; i++ {
		code := NewTicketCode(func(candidate string) bool {
			if isUsed != nil && isUsed(candidate) {
				return true
			}
			for _, previous := range batch {
				if previous == candidate {
					return true
				}
			}
			return false
		}, free)
		batch = append(batch, code)
	}
	return batch
}

// NewUUID returns a fresh purchase token not yet known to isUsed.
func NewUUID(isUsed func(string) bool) string {
	for {
		candidate := uuid.NewString()
		if isUsed == nil || !isUsed(candidate) {
			return candidate
		}
	}
}
