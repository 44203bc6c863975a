package model

// TransferReason describes why a token movement was requested.
type TransferReason string

const (
	TransferReasonPayment      TransferReason = "PAYMENT"
	TransferReasonReward       TransferReason = "REWARD"
	TransferReasonCompensation TransferReason = "COMPENSATION"
)

// Transfer describes a single token movement between two wallets.
type Transfer struct {
	ID     string
	Token  string
	From   string
	To     string
	Amount uint64
	Reason TransferReason
}

// Reverse returns the transfer that undoes t.
func (t Transfer) Reverse(id string) Transfer {
	return Transfer{
		ID:     id,
		Token:  t.Token,
		From:   t.To,
		To:     t.From,
		Amount: t.Amount,
		Reason: TransferReasonCompensation,
	}
}
