package alerts

import "github.com/google/uuid"

// The in-memory sent set mirrors the persisted (user, link) ledger for the
// duration of one run. Keys gained during the run stop a second alert from
// double-sending the same promotion to the same user; keys loaded up front
// stop re-sends across runs.

func dedupKey(userID uuid.UUID, link string) string {
	return userID.String() + "|" + link
}

func alreadyNotified(sent map[string]struct{}, userID uuid.UUID, link string) bool {
	_, ok := sent[dedupKey(userID, link)]
	return ok
}

func markNotified(sent map[string]struct{}, userID uuid.UUID, link string) {
	sent[dedupKey(userID, link)] = struct{}{}
}
