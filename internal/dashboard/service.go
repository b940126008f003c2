// Package dashboard は収支と貸借のダッシュボード集計を提供する。
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hitoshi/kicho/internal/model"
	"github.com/hitoshi/kicho/internal/repository"
)

// Summary はダッシュボードの集計結果。金額はすべてセント単位。
// NetCentsは収入合計−支出合計、NetWorthCentsは資産合計−負債合計。
type Summary struct {
	Month                 string
	TotalIncomeCents      int64
	TotalExpenseCents     int64
	NetCents              int64
	TransactionCount      int
	IncomeByCategory      []repository.CategoryTotal
	ExpenseByCategory     []repository.CategoryTotal
	TotalAssetsCents      int64
	TotalLiabilitiesCents int64
	NetWorthCents         int64
}

// Service はダッシュボード集計のサービス層。
// 取引と貸借項目の独立した集計クエリを並行実行して1つのサマリーにまとめる。
type Service struct {
	transactionRepo repository.TransactionRepository
	balanceItemRepo repository.BalanceItemRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(transactionRepo repository.TransactionRepository, balanceItemRepo repository.BalanceItemRepository) *Service {
	return &Service{
		transactionRepo: transactionRepo,
		balanceItemRepo: balanceItemRepo,
	}
}

// Summary はユーザーのダッシュボードサマリーを集計する。
// monthが空でない場合は取引系の集計を"YYYY-MM"の月に絞り込む。
// 貸借項目は時点スナップショットなので月の絞り込みを受けない。
// 各集計は独立しているためerrgroupで並行実行し、いずれかが失敗したら全体を失敗させる。
func (s *Service) Summary(ctx context.Context, userID, month string) (*Summary, error) {
	if month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			return nil, model.NewValidationError("月はYYYY-MM形式で指定してください")
		}
	}

	incomeFilter := repository.TransactionFilter{Type: model.TransactionTypeIncome, Month: month}
	expenseFilter := repository.TransactionFilter{Type: model.TransactionTypeExpense, Month: month}
	allFilter := repository.TransactionFilter{Month: month}

	summary := &Summary{Month: month}

	// 各ゴルーチンはsummaryの別フィールドにのみ書き込む
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.transactionRepo.SumAmountCents(ctx, userID, incomeFilter)
		if err != nil {
			return fmt.Errorf("収入合計の集計に失敗しました: %w", err)
		}
		summary.TotalIncomeCents = total
		return nil
	})

	g.Go(func() error {
		total, err := s.transactionRepo.SumAmountCents(ctx, userID, expenseFilter)
		if err != nil {
			return fmt.Errorf("支出合計の集計に失敗しました: %w", err)
		}
		summary.TotalExpenseCents = total
		return nil
	})

	g.Go(func() error {
		count, err := s.transactionRepo.CountByUserID(ctx, userID, allFilter)
		if err != nil {
			return fmt.Errorf("取引件数の集計に失敗しました: %w", err)
		}
		summary.TransactionCount = count
		return nil
	})

	g.Go(func() error {
		totals, err := s.transactionRepo.SumByCategory(ctx, userID, incomeFilter)
		if err != nil {
			return fmt.Errorf("収入のカテゴリ別集計に失敗しました: %w", err)
		}
		summary.IncomeByCategory = totals
		return nil
	})

	g.Go(func() error {
		totals, err := s.transactionRepo.SumByCategory(ctx, userID, expenseFilter)
		if err != nil {
			return fmt.Errorf("支出のカテゴリ別集計に失敗しました: %w", err)
		}
		summary.ExpenseByCategory = totals
		return nil
	})

	g.Go(func() error {
		total, err := s.balanceItemRepo.SumAmountCentsByKind(ctx, userID, model.BalanceItemKindAsset)
		if err != nil {
			return fmt.Errorf("資産合計の集計に失敗しました: %w", err)
		}
		summary.TotalAssetsCents = total
		return nil
	})

	g.Go(func() error {
		total, err := s.balanceItemRepo.SumAmountCentsByKind(ctx, userID, model.BalanceItemKindLiability)
		if err != nil {
			return fmt.Errorf("負債合計の集計に失敗しました: %w", err)
		}
		summary.TotalLiabilitiesCents = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.NetCents = summary.TotalIncomeCents - summary.TotalExpenseCents
	summary.NetWorthCents = summary.TotalAssetsCents - summary.TotalLiabilitiesCents

	// JSONでnullではなく[]として描画されるよう空スライスに正規化する
	if summary.IncomeByCategory == nil {
		summary.IncomeByCategory = []repository.CategoryTotal{}
	}
	if summary.ExpenseByCategory == nil {
		summary.ExpenseByCategory = []repository.CategoryTotal{}
	}

	return summary, nil
}
