package hermes

import "strings"

const (
	// Wildcards the rescore worker listens on.
	SubjectBoardWeightsAny = "seeds.board.*.weights"
	SubjectSeedCreatedAny  = "seeds.seed.*.created"
	SubjectSeedUpdatedAny  = "seeds.seed.*.updated"

	SubjectRescoreCompleted = "seeds.rescore.completed"
	SubjectExportCompleted  = "seeds.export.completed"

	StreamName   = "SEEDS_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

var StreamSubjects = []string{"seeds.board.>", "seeds.seed.>", "seeds.comment.>"}

func SubjectBoardCreated(boardID string) string { return "seeds.board." + boardID + ".created" }
func SubjectBoardUpdated(boardID string) string { return "seeds.board." + boardID + ".updated" }
func SubjectBoardDeleted(boardID string) string { return "seeds.board." + boardID + ".deleted" }
func SubjectBoardWeights(boardID string) string { return "seeds.board." + boardID + ".weights" }

func SubjectSeedCreated(seedID string) string  { return "seeds.seed." + seedID + ".created" }
func SubjectSeedUpdated(seedID string) string  { return "seeds.seed." + seedID + ".updated" }
func SubjectSeedDeleted(seedID string) string  { return "seeds.seed." + seedID + ".deleted" }
func SubjectSeedApproved(seedID string) string { return "seeds.seed." + seedID + ".approved" }
func SubjectSeedRejected(seedID string) string { return "seeds.seed." + seedID + ".rejected" }

func SubjectCommentCreated(commentID string) string { return "seeds.comment." + commentID + ".created" }

// SubjectID returns the id token of a "seeds.<kind>.<id>.<event>" subject.
func SubjectID(subject string) (string, bool) {
	parts := strings.Split(subject, ".")
	if len(parts) != 4 || parts[0] != "seeds" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
