package repoargs

type RepositoryName string

const (
	UserRepoName        RepositoryName = "user"
	BalanceRepoName     RepositoryName = "balance"
	TransferRepoName    RepositoryName = "transfer"
	TierRepoName        RepositoryName = "commission_tier"
	LedgerEntryRepoName RepositoryName = "ledger_entry"
	PoolRepoName        RepositoryName = "commission_pool"
)
