package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Postgres implementa operações de carteira em banco
// Toda mutação de saldo é um ajuste relativo (balance_cents += delta)
// aplicado dentro da transação, nunca um read-modify-write do chamador
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
)

// GetOrCreateWallet retorna o walletId e saldo de um usuário, criando a carteira se não existir
// Usa transação para garantir atomicidade
func (p *Postgres) GetOrCreateWallet(ctx context.Context, userID string) (walletID string, balance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	var id string
	var bal int64
	err = tx.QueryRowContext(ctx, `SELECT id, balance_cents FROM wallets WHERE user_id=$1`, userID).Scan(&id, &bal)
	if err == sql.ErrNoRows {
		id = uuid.New().String()
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO wallets(id, user_id, balance_cents, version) VALUES($1,$2,0,1)`,
			id, userID); err != nil {
			return "", 0, err
		}
		bal = 0
	} else if err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}

	return id, bal, nil
}

// lockWallet obtém a linha da carteira com lock pessimista (FOR UPDATE)
func lockWallet(ctx context.Context, tx *sql.Tx, userID string) (walletID string, balance int64, err error) {
	err = tx.QueryRowContext(ctx,
		`SELECT id, balance_cents FROM wallets WHERE user_id=$1 FOR UPDATE`, userID).
		Scan(&walletID, &balance)
	if err == sql.ErrNoRows {
		return "", 0, ErrNotFound
	}
	return walletID, balance, err
}

// ledgerEntryExists verifica se já há lançamento para (wallet, external_ref)
// Base da idempotência de débitos e créditos
func ledgerEntryExists(ctx context.Context, tx *sql.Tx, walletID, externalRef string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM wallet_ledger WHERE wallet_id=$1 AND external_ref=$2`, walletID, externalRef).
		Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// Deposit incrementa o saldo da carteira e registra a operação no ledger
// Idempotente por external_ref quando informado
func (p *Postgres) Deposit(ctx context.Context, userID string, amount int64, externalRef string) (walletID string, newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	id, bal, err := lockWallet(ctx, tx, userID)
	if err != nil {
		return "", 0, err
	}

	if externalRef != "" {
		exists, err := ledgerEntryExists(ctx, tx, id, externalRef)
		if err != nil {
			return "", 0, err
		}
		if exists {
			return id, bal, tx.Commit() // já aplicado
		}
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE wallets SET balance_cents = balance_cents + $1, version = version + 1 WHERE id=$2`,
		amount, id); err != nil {
		return "", 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(wallet_id, operation_type, amount_cents, external_ref, description)
		 VALUES($1,'DEPOSIT',$2,NULLIF($3,''),$4)`,
		id, amount, externalRef, "deposit:"+externalRef); err != nil {
		return "", 0, err
	}

	if err = tx.QueryRowContext(ctx, `SELECT balance_cents FROM wallets WHERE id=$1`, id).Scan(&newBalance); err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}
	return id, newBalance, nil
}

// Debit desconta o stake da carteira no commit de uma aposta
// Idempotente por (wallet_id, external_ref): redelivery do mesmo ref não debita duas vezes
func (p *Postgres) Debit(ctx context.Context, userID string, amount int64, externalRef string) (newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, bal, err := lockWallet(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	exists, err := ledgerEntryExists(ctx, tx, id, externalRef)
	if err != nil {
		return 0, err
	}
	if exists {
		return bal, tx.Commit() // já debitado
	}

	if bal < amount {
		return 0, ErrInsufficientFunds
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE wallets SET balance_cents = balance_cents - $1, version = version + 1 WHERE id=$2`,
		amount, id); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(wallet_id, operation_type, amount_cents, external_ref, description)
		 VALUES($1,'DEBIT',$2,$3,$4)`,
		id, amount, externalRef, "stake:"+externalRef); err != nil {
		return 0, err
	}

	if err = tx.QueryRowContext(ctx, `SELECT balance_cents FROM wallets WHERE id=$1`, id).Scan(&newBalance); err != nil {
		return 0, err
	}

	return newBalance, tx.Commit()
}

// Credit adiciona um prêmio de aposta ganha à carteira
// Idempotente por (wallet_id, external_ref): o crédito de liquidação usa
// o wagerID como ref, então a mesma vitória nunca credita duas vezes
func (p *Postgres) Credit(ctx context.Context, userID string, amount int64, externalRef string) (newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, bal, err := lockWallet(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	exists, err := ledgerEntryExists(ctx, tx, id, externalRef)
	if err != nil {
		return 0, err
	}
	if exists {
		return bal, tx.Commit() // já creditado
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE wallets SET balance_cents = balance_cents + $1, version = version + 1 WHERE id=$2`,
		amount, id); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(wallet_id, operation_type, amount_cents, external_ref, description)
		 VALUES($1,'CREDIT',$2,$3,$4)`,
		id, amount, externalRef, "payout:"+externalRef); err != nil {
		return 0, err
	}

	if err = tx.QueryRowContext(ctx, `SELECT balance_cents FROM wallets WHERE id=$1`, id).Scan(&newBalance); err != nil {
		return 0, err
	}

	return newBalance, tx.Commit()
}

// Refund devolve um débito anterior (compensação quando a criação da aposta
// falha depois do débito do stake)
// Idempotente: refaz nada se o estorno já foi lançado
func (p *Postgres) Refund(ctx context.Context, userID, externalRef string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, _, err := lockWallet(ctx, tx, userID)
	if err != nil {
		return err
	}

	var amount int64
	err = tx.QueryRowContext(ctx,
		`SELECT amount_cents FROM wallet_ledger
		 WHERE wallet_id=$1 AND external_ref=$2 AND operation_type='DEBIT'`,
		id, externalRef).Scan(&amount)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	refundRef := "refund:" + externalRef
	exists, err := ledgerEntryExists(ctx, tx, id, refundRef)
	if err != nil {
		return err
	}
	if exists {
		return tx.Commit() // já estornado
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE wallets SET balance_cents = balance_cents + $1, version = version + 1 WHERE id=$2`,
		amount, id); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(wallet_id, operation_type, amount_cents, external_ref, description)
		 VALUES($1,'REFUND',$2,$3,$4)`,
		id, amount, refundRef, "refund:"+externalRef); err != nil {
		return err
	}

	return tx.Commit()
}
