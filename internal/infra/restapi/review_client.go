package restapi

import (
	"context"
	"strconv"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// ReviewClient は /reviews の取得と投稿
type ReviewClient struct {
	c *Client
}

func NewReviewClient(c *Client) *ReviewClient {
	return &ReviewClient{c: c}
}

var _ repo.ReviewRepository = (*ReviewClient)(nil)

type reviewDTO struct {
	ID        model.FlexID `json:"id,omitempty"`
	ProductID model.FlexID `json:"productId"`
	UserID    model.FlexID `json:"userId"`
	UserName  string       `json:"userName,omitempty"`
	Rating    int          `json:"rating"`
	Text      string       `json:"text"`
	CreatedAt string       `json:"createdAt"`
}

func (r *ReviewClient) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	var dtos []reviewDTO
	query := map[string]string{"productId": strconv.FormatInt(productID, 10)}
	if err := r.c.getJSON(ctx, "/reviews", query, nil, &dtos); err != nil {
		return nil, err
	}

	reviews := make([]model.Review, 0, len(dtos))
	for _, d := range dtos {
		reviews = append(reviews, d.toModel())
	}
	return reviews, nil
}

func (r *ReviewClient) Create(ctx context.Context, review model.Review) (model.Review, error) {
	body := reviewDTO{
		ProductID: model.FlexID(review.ProductID),
		UserID:    model.FlexID(review.UserID),
		UserName:  review.UserName,
		Rating:    review.Rating,
		Text:      review.Text,
		CreatedAt: review.CreatedAt.UTC().Format(isoMillis),
	}

	var created reviewDTO
	if err := r.c.postJSON(ctx, "/reviews", nil, body, &created); err != nil {
		return model.Review{}, err
	}
	return created.toModel(), nil
}

func (d reviewDTO) toModel() model.Review {
	created, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
	if err != nil {
		created = time.Time{}
	}
	return model.Review{
		ID:        int64(d.ID),
		ProductID: int64(d.ProductID),
		UserID:    int64(d.UserID),
		UserName:  d.UserName,
		Rating:    d.Rating,
		Text:      d.Text,
		CreatedAt: created,
	}
}
