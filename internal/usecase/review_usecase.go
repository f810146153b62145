package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const (
	MinRating = 1
	MaxRating = 5

	anonymousReviewer = "Anonymous User"
	defaultReviewer   = "Customer"
)

// 商品レビュー。投稿できるのは配達済みの注文にその商品があるcustomerだけ
type ReviewUsecase struct {
	reviews repo.ReviewRepository
	orders  repo.OrderReader
	clock   Clock
	log     *slog.Logger
}

// DI
func NewReviewUsecase(reviews repo.ReviewRepository, orders repo.OrderReader, clock Clock, log *slog.Logger) *ReviewUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &ReviewUsecase{reviews: reviews, orders: orders, clock: clock, log: log}
}

type ReviewOutput struct {
	ID        int64
	ProductID int64
	UserName  string
	Rating    int
	Text      string
	CreatedAt time.Time
}

// POST /products/:id/reviews の入力
type SubmitReviewInput struct {
	Rating int
	Text   string
}

// List は商品のレビューをAPIの返す順で返す
func (u *ReviewUsecase) List(ctx context.Context, productID int64) ([]ReviewOutput, error) {
	if productID <= 0 {
		return []ReviewOutput{}, validationError("list reviews", ErrInvalidID)
	}

	reviews, err := u.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return []ReviewOutput{}, networkError("list reviews", err)
	}

	outs := make([]ReviewOutput, 0, len(reviews))
	for _, r := range reviews {
		outs = append(outs, toReviewOutput(r))
	}
	return outs, nil
}

func (u *ReviewUsecase) Submit(ctx context.Context, sess model.Session, productID int64, in SubmitReviewInput) (ReviewOutput, error) {
	const op = "submit review"

	if sess.UserID <= 0 || productID <= 0 {
		return ReviewOutput{}, validationError(op, ErrInvalidID)
	}
	if !sess.IsCustomer() {
		return ReviewOutput{}, forbiddenError(op, ErrCustomersOnly)
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		return ReviewOutput{}, validationError(op, ErrInvalidRating)
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return ReviewOutput{}, validationError(op, ErrEmptyReview)
	}

	ok, err := u.hasReceived(ctx, sess.UserID, productID)
	if err != nil {
		return ReviewOutput{}, networkError(op, err)
	}
	if !ok {
		return ReviewOutput{}, forbiddenError(op, ErrNotPurchased)
	}

	name := sess.Name
	if name == "" {
		name = defaultReviewer
	}
	review := model.Review{
		ProductID: productID,
		UserID:    sess.UserID,
		UserName:  name,
		Rating:    in.Rating,
		Text:      text,
		CreatedAt: u.clock.Now().UTC(),
	}

	created, err := u.reviews.Create(ctx, review)
	if err != nil {
		u.log.ErrorContext(ctx, "review submission failed", "user_id", sess.UserID, "product_id", productID, "error", err)
		return ReviewOutput{}, newError(KindSubmissionFailed, op, err)
	}
	if created.ProductID == 0 {
		created = review
	}

	u.log.InfoContext(ctx, "review posted", "user_id", sess.UserID, "product_id", productID, "rating", in.Rating)
	return toReviewOutput(created), nil
}

// 配達済みの注文にproductIDが含まれるか
func (u *ReviewUsecase) hasReceived(ctx context.Context, userID int64, productID int64) (bool, error) {
	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, o := range orders {
		if !o.Status.IsFulfilled() {
			continue
		}
		for _, it := range o.Items {
			if it.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func toReviewOutput(r model.Review) ReviewOutput {
	name := strings.TrimSpace(r.UserName)
	if name == "" {
		name = anonymousReviewer
	}
	return ReviewOutput{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserName:  name,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}
