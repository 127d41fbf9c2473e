package domain

// Table is a mongo collection name
type Table string

const (
	TableListings           Table = "listings"
	TableSales              Table = "sales"
	TableBalances           Table = "balances"
	TablePendingWithdrawals Table = "pending_withdrawals"
	TableHoldings           Table = "holdings"
	TableApprovals          Table = "approvals"
	TableAssetContracts     Table = "asset_contracts"
	TableTokenRoyalties     Table = "token_royalties"
	TableArtistWhitelist    Table = "artist_whitelist"
	TableCollectorMints     Table = "collector_mints"
	TablePrimarySales       Table = "primary_sales"
	TableHealthCheck        Table = "healthcheck"
)
