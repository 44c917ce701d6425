package catalog

import "github.com/tokenpulse/tokenpulse/internal/models"

var defaultTokens = []models.Token{
	{ID: "pepe-rocket", Name: "Pepe Rocket", Ticker: "PEPER", Icon: models.IconFrog, Price: 0.000042, PriceChange15m: 12.4, PriceChange1h: 48.1, Volume: 182_000, Liquidity: 41_500, OnChain: 4, Status: models.StatusNewPairs},
	{ID: "moon-cat", Name: "Moon Cat", Ticker: "MCAT", Icon: models.IconCat, Price: 0.0031, PriceChange15m: -3.2, PriceChange1h: 8.7, Volume: 96_400, Liquidity: 22_800, OnChain: 11, Status: models.StatusNewPairs},
	{ID: "sol-surfer", Name: "Sol Surfer", Ticker: "SURF", Icon: models.IconSolana, Price: 0.0187, PriceChange15m: 5.9, PriceChange1h: -2.4, Volume: 254_000, Liquidity: 67_000, OnChain: 23, Status: models.StatusNewPairs},
	{ID: "doge-jr", Name: "Doge Junior", Ticker: "DOGEJR", Icon: models.IconDoge, Price: 0.00089, PriceChange15m: 1.1, PriceChange1h: 15.3, Volume: 71_200, Liquidity: 18_900, OnChain: 37, Status: models.StatusNewPairs},
	{ID: "launch-pad", Name: "Launch Pad", Ticker: "LPAD", Icon: models.IconRocket, Price: 0.27, PriceChange15m: -7.8, PriceChange1h: -12.6, Volume: 38_900, Liquidity: 12_300, OnChain: 52, Status: models.StatusNewPairs},

	{ID: "frog-king", Name: "Frog King", Ticker: "FKING", Icon: models.IconFrog, Price: 0.0124, PriceChange15m: 2.7, PriceChange1h: 31.9, Volume: 612_000, Liquidity: 145_000, OnChain: 190, Status: models.StatusFinalStretch},
	{ID: "based-eth", Name: "Based ETH", Ticker: "BETH", Icon: models.IconEthereum, Price: 1.84, PriceChange15m: 0.6, PriceChange1h: 4.2, Volume: 1_340_000, Liquidity: 402_000, OnChain: 315, Status: models.StatusFinalStretch},
	{ID: "kitty-coin", Name: "Kitty Coin", Ticker: "KITTY", Icon: models.IconCat, Price: 0.00571, PriceChange15m: -1.9, PriceChange1h: -6.3, Volume: 287_500, Liquidity: 88_100, OnChain: 468, Status: models.StatusFinalStretch},
	{ID: "orbit", Name: "Orbit", Ticker: "ORBT", Icon: models.IconRocket, Price: 0.093, PriceChange15m: 4.4, PriceChange1h: 9.8, Volume: 455_000, Liquidity: 120_700, OnChain: 720, Status: models.StatusFinalStretch},

	{ID: "wrapped-btc", Name: "Wrapped Bitcoin", Ticker: "WBTC", Icon: models.IconBitcoin, Price: 67_250, PriceChange15m: 0.2, PriceChange1h: 0.9, Volume: 48_200_000, Liquidity: 310_000_000, OnChain: 2_880, Status: models.StatusMigrated},
	{ID: "solana", Name: "Solana", Ticker: "SOL", Icon: models.IconSolana, Price: 152.4, PriceChange15m: -0.4, PriceChange1h: 1.6, Volume: 21_700_000, Liquidity: 96_000_000, OnChain: 4_320, Status: models.StatusMigrated},
	{ID: "dogwifhat", Name: "Dog Wif Hat", Ticker: "WIF", Icon: models.IconDoge, Price: 2.31, PriceChange15m: 1.8, PriceChange1h: -3.1, Volume: 9_800_000, Liquidity: 24_500_000, OnChain: 1_950, Status: models.StatusMigrated},
	{ID: "ether", Name: "Ether", Ticker: "ETH", Icon: models.IconEthereum, Price: 3_480, PriceChange15m: 0.1, PriceChange1h: -0.7, Volume: 36_400_000, Liquidity: 210_000_000, OnChain: 5_760, Status: models.StatusMigrated},
	{ID: "usd-coin", Name: "USD Coin", Ticker: "USDC", Icon: models.IconDollar, Price: 1, Volume: 88_000_000, Liquidity: 520_000_000, OnChain: 10_080, Status: models.StatusMigrated, Stablecoin: true},
}
