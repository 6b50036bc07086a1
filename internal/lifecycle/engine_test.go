package lifecycle

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ironthroneruler/lostandfound/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func testItem(status string) *models.Item {
	return &models.Item{
		ID:            uuid.New(),
		Name:          "Blue Water Bottle",
		Category:      "personal",
		Status:        status,
		SubmittedByID: uuid.New(),
		CreatedAt:     testNow.AddDate(0, 0, -10),
	}
}

func testClaim(item *models.Item, status string) *models.Claim {
	return &models.Claim{
		ID:         uuid.New(),
		ItemID:     item.ID,
		ClaimantID: uuid.New(),
		ClaimType:  models.ClaimTypeClaim,
		Status:     status,
	}
}

func staffMeta() Meta {
	staff := uuid.New()
	return Meta{Actor: &staff, Now: testNow, Notes: "checked"}
}

func TestApproveReport(t *testing.T) {
	item := testItem(models.ItemStatusReported)
	meta := staffMeta()

	require.NoError(t, Apply(item, nil, EventApproveReport, meta))

	assert.Equal(t, models.ItemStatusUnclaimed, item.Status)
	assert.Equal(t, meta.Actor, item.ApprovedByID)
	require.NotNil(t, item.ApprovalDate)
	assert.Equal(t, testNow, *item.ApprovalDate)
	assert.Equal(t, "checked", item.ApprovalNotes)
}

func TestRejectReport(t *testing.T) {
	item := testItem(models.ItemStatusReported)

	require.NoError(t, Apply(item, nil, EventRejectReport, staffMeta()))

	assert.Equal(t, models.ItemStatusRejected, item.Status)
	assert.NotNil(t, item.ApprovalDate)
}

func TestReportReviewOnlyFromReported(t *testing.T) {
	for _, status := range []string{
		models.ItemStatusUnclaimed,
		models.ItemStatusRejected,
		models.ItemStatusVerified,
		models.ItemStatusReturned,
		models.ItemStatusDiscarded,
	} {
		item := testItem(status)
		err := Apply(item, nil, EventApproveReport, staffMeta())
		assert.ErrorIs(t, err, ErrInvalidTransition, "approve_report from %s", status)
		assert.Equal(t, status, item.Status, "item must not change on error")
	}
}

func TestApproveClaim(t *testing.T) {
	for _, status := range []string{models.ItemStatusUnclaimed, models.ItemStatusRejected} {
		item := testItem(status)
		claim := testClaim(item, models.ClaimStatusPending)
		meta := staffMeta()

		require.NoError(t, Apply(item, claim, EventApproveClaim, meta))

		assert.Equal(t, models.ItemStatusVerified, item.Status)
		require.NotNil(t, item.VerifiedDate)
		assert.Equal(t, testNow, *item.VerifiedDate)
		assert.Nil(t, item.ReturnedToID)

		assert.Equal(t, models.ClaimStatusApproved, claim.Status)
		assert.Equal(t, meta.Actor, claim.ReviewedByID)
		require.NotNil(t, claim.ReviewedAt)
		assert.Equal(t, "checked", claim.AdminNotes)
	}
}

func TestApproveClaimItemNotOpen(t *testing.T) {
	for _, status := range []string{
		models.ItemStatusReported,
		models.ItemStatusVerified,
		models.ItemStatusReturned,
		models.ItemStatusDiscarded,
	} {
		item := testItem(status)
		claim := testClaim(item, models.ClaimStatusPending)

		err := Apply(item, claim, EventApproveClaim, staffMeta())

		assert.ErrorIs(t, err, ErrInvalidTransition, "approve_claim from %s", status)
		assert.Equal(t, models.ClaimStatusPending, claim.Status)
	}
}

func TestApproveClaimNotPending(t *testing.T) {
	item := testItem(models.ItemStatusUnclaimed)
	claim := testClaim(item, models.ClaimStatusApproved)

	err := Apply(item, claim, EventApproveClaim, staffMeta())

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.ItemStatusUnclaimed, item.Status)
}

func TestApproveClaimRequiresClaim(t *testing.T) {
	item := testItem(models.ItemStatusUnclaimed)
	err := Apply(item, nil, EventApproveClaim, staffMeta())
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestRejectClaim(t *testing.T) {
	item := testItem(models.ItemStatusUnclaimed)
	claim := testClaim(item, models.ClaimStatusPending)

	require.NoError(t, Apply(item, claim, EventRejectClaim, staffMeta()))

	assert.Equal(t, models.ItemStatusRejected, item.Status)
	assert.Nil(t, item.VerifiedDate)
	assert.Equal(t, models.ClaimStatusRejected, claim.Status)
}

func TestCompleteClaim(t *testing.T) {
	item := testItem(models.ItemStatusVerified)
	verified := testNow.AddDate(0, 0, -3)
	item.VerifiedDate = &verified
	claim := testClaim(item, models.ClaimStatusApproved)

	require.NoError(t, Apply(item, claim, EventCompleteClaim, staffMeta()))

	assert.Equal(t, models.ItemStatusReturned, item.Status)
	require.NotNil(t, item.ReturnedToID)
	assert.Equal(t, claim.ClaimantID, *item.ReturnedToID)
	assert.Equal(t, models.ClaimStatusCompleted, claim.Status)
}

func TestCompleteClaimStillPending(t *testing.T) {
	// The cross-entity guard fires regardless of the item's status.
	for _, status := range []string{models.ItemStatusUnclaimed, models.ItemStatusVerified} {
		item := testItem(status)
		claim := testClaim(item, models.ClaimStatusPending)

		err := Apply(item, claim, EventCompleteClaim, staffMeta())

		assert.ErrorIs(t, err, ErrPreconditionFailed)
		assert.Equal(t, status, item.Status)
		assert.Nil(t, item.ReturnedToID)
		assert.Equal(t, models.ClaimStatusPending, claim.Status)
		assert.Nil(t, claim.ReviewedByID)
	}
}

func TestDiscard(t *testing.T) {
	actor := uuid.New()
	for _, status := range []string{
		models.ItemStatusUnclaimed,
		models.ItemStatusRejected,
		models.ItemStatusVerified,
	} {
		item := testItem(status)
		meta := Meta{Actor: &actor, Now: testNow, DiscardReason: "Damaged", Notes: "beyond repair"}

		require.NoError(t, Apply(item, nil, EventDiscard, meta))

		assert.Equal(t, models.ItemStatusDiscarded, item.Status)
		require.NotNil(t, item.DiscardDate)
		assert.Equal(t, testNow, *item.DiscardDate)
		assert.Equal(t, "Damaged", item.DiscardReason)
		assert.Equal(t, "beyond repair", item.DiscardNotes)
		assert.Equal(t, &actor, item.DiscardedByID)
	}
}

func TestDiscardBySystemActor(t *testing.T) {
	item := testItem(models.ItemStatusUnclaimed)
	meta := Meta{Now: testNow, DiscardReason: "Auto-discarded: unclaimed for 90+ days"}

	require.NoError(t, Apply(item, nil, EventDiscard, meta))

	assert.Equal(t, models.ItemStatusDiscarded, item.Status)
	assert.Nil(t, item.DiscardedByID)
}

func TestDiscardIllegal(t *testing.T) {
	for _, status := range []string{
		models.ItemStatusReported,
		models.ItemStatusReturned,
		models.ItemStatusDiscarded,
	} {
		item := testItem(status)
		err := Apply(item, nil, EventDiscard, staffMeta())
		assert.ErrorIs(t, err, ErrInvalidTransition, "discard from %s", status)
		assert.Nil(t, item.DiscardDate)
	}
}

func TestUndoFromVerified(t *testing.T) {
	item := testItem(models.ItemStatusVerified)
	verified := testNow.AddDate(0, 0, -5)
	item.VerifiedDate = &verified
	claim := testClaim(item, models.ClaimStatusApproved)
	reviewer := uuid.New()
	reviewedAt := testNow.AddDate(0, 0, -5)
	claim.ReviewedByID = &reviewer
	claim.ReviewedAt = &reviewedAt
	claim.AdminNotes = "looks right"

	require.NoError(t, Apply(item, claim, EventUndoClaimReview, staffMeta()))

	assert.Equal(t, models.ItemStatusUnclaimed, item.Status)
	assert.Nil(t, item.VerifiedDate, "countdown must restart cleanly after undo")
	assert.Nil(t, item.ReturnedToID)
	assert.Equal(t, models.ClaimStatusPending, claim.Status)
	assert.Nil(t, claim.ReviewedByID)
	assert.Nil(t, claim.ReviewedAt)
	assert.Empty(t, claim.AdminNotes)
}

func TestUndoFromReturned(t *testing.T) {
	item := testItem(models.ItemStatusReturned)
	verified := testNow.AddDate(0, 0, -30)
	item.VerifiedDate = &verified
	claim := testClaim(item, models.ClaimStatusCompleted)
	item.ReturnedToID = &claim.ClaimantID

	require.NoError(t, Apply(item, claim, EventUndoClaimReview, staffMeta()))

	assert.Equal(t, models.ItemStatusUnclaimed, item.Status)
	assert.Nil(t, item.VerifiedDate)
	assert.Nil(t, item.ReturnedToID)
	assert.Equal(t, models.ClaimStatusPending, claim.Status)
}

func TestUndoFromRejected(t *testing.T) {
	item := testItem(models.ItemStatusRejected)
	claim := testClaim(item, models.ClaimStatusRejected)

	require.NoError(t, Apply(item, claim, EventUndoClaimReview, staffMeta()))

	assert.Equal(t, models.ItemStatusUnclaimed, item.Status)
	assert.Equal(t, models.ClaimStatusPending, claim.Status)
}

func TestUndoIllegal(t *testing.T) {
	item := testItem(models.ItemStatusUnclaimed)
	claim := testClaim(item, models.ClaimStatusApproved)
	err := Apply(item, claim, EventUndoClaimReview, staffMeta())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	item = testItem(models.ItemStatusVerified)
	claim = testClaim(item, models.ClaimStatusPending)
	err = Apply(item, claim, EventUndoClaimReview, staffMeta())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveThenUndoRoundTrip(t *testing.T) {
	item := testItem(models.ItemStatusUnclaimed)
	claim := testClaim(item, models.ClaimStatusPending)

	require.NoError(t, Apply(item, claim, EventApproveClaim, staffMeta()))
	require.NoError(t, Apply(item, claim, EventUndoClaimReview, staffMeta()))

	assert.Equal(t, models.ItemStatusUnclaimed, item.Status)
	assert.Nil(t, item.VerifiedDate)
	assert.Nil(t, item.ReturnedToID)
	assert.Equal(t, models.ClaimStatusPending, claim.Status)
	assert.Nil(t, claim.ReviewedByID)
	assert.Nil(t, claim.ReviewedAt)
}

func TestUnknownEvent(t *testing.T) {
	item := testItem(models.ItemStatusUnclaimed)
	err := Apply(item, nil, Event("promote"), staffMeta())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
