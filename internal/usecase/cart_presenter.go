package usecase

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

// 表示用の明細。カートか商品が変わったら作り直す（キャッシュしない）
type LineItem struct {
	ProductID int64
	Name      string
	Image     string
	Quantity  int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type CartView struct {
	Lines      []LineItem
	TotalItems int64
	// 小数2桁に丸め済み
	TotalPrice decimal.Decimal
	// カタログが読めず空カタログで作った
	Degraded bool
}

// Present はカートとカタログを突き合わせて表示用の明細と合計を作る。
// カタログに無い商品の行は落とし、合計にも含めない。
func Present(cart model.Cart, catalog model.Catalog) CartView {
	lines := make([]LineItem, 0, len(cart.Lines))
	var totalItems int64
	total := decimal.Zero

	for _, cl := range cart.Lines {
		p, ok := catalog.Lookup(cl.ProductID)
		if !ok {
			continue
		}

		lineTotal := p.Price.Mul(decimal.NewFromInt(cl.Quantity))
		lines = append(lines, LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Quantity:  cl.Quantity,
			UnitPrice: p.Price,
			LineTotal: lineTotal,
		})

		totalItems += cl.Quantity
		total = total.Add(lineTotal)
	}

	return CartView{
		Lines:      lines,
		TotalItems: totalItems,
		TotalPrice: total.Round(2),
	}
}
