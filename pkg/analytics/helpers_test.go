package analytics

import (
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/google/uuid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func sale(amount float64, at time.Time) domain.Transaction {
	return domain.Transaction{ID: uuid.New(), Type: domain.TransactionSale, Category: "sales", Amount: amount, Date: at, Quantity: 1}
}

func expense(amount float64, at time.Time) domain.Transaction {
	return domain.Transaction{ID: uuid.New(), Type: domain.TransactionExpense, Category: "rent", Amount: amount, Date: at}
}

func productSale(product uuid.UUID, qty int, amount float64, at time.Time) domain.Transaction {
	txn := sale(amount, at)
	txn.ProductID = &product
	txn.Quantity = qty
	return txn
}
