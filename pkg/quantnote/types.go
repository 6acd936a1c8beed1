package quantnote

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Time wraps time.Time with decoding tolerant of the service's timestamp
// spellings: RFC3339 with or without a zone, a bare date, or Unix seconds.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if raw[0] == '"' {
		s, err := strconv.Unquote(string(raw))
		if err != nil {
			return fmt.Errorf("quantnote: time value %s: %w", raw, err)
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return fmt.Errorf("quantnote: unrecognized time value %q", s)
	}
	secs, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("quantnote: unrecognized time value %s", raw)
	}
	t.Time = time.Unix(secs, 0).UTC()
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(strconv.Quote(t.Format(time.RFC3339))), nil
}

// Asset is one entry of the symbol directory.
type Asset struct {
	Chain     int64  `json:"chain"`
	Contract  string `json:"contract"`
	IsDefault bool   `json:"is_default"`
	Symbol    string `json:"symbol"`
}

// Candle is one OHLC price bucket.
type Candle struct {
	Time  Time            `json:"time"`
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

func (c Candle) timestamp() time.Time { return c.Time.Time }

// CountPoint is one bucket of a counting series (active addresses, swaps).
type CountPoint struct {
	Time  Time  `json:"time"`
	Count int64 `json:"count"`
}

func (p CountPoint) timestamp() time.Time { return p.Time.Time }

// VolumePoint is one bucket of a traded-volume series.
type VolumePoint struct {
	Time   Time            `json:"time"`
	Volume decimal.Decimal `json:"volume"`
}

func (p VolumePoint) timestamp() time.Time { return p.Time.Time }

// LiquidityPoint is one bucket of an LP liquidity series, one value per
// pooled token.
type LiquidityPoint struct {
	Time       Time            `json:"time"`
	Liquidity0 decimal.Decimal `json:"liquidity_0"`
	Liquidity1 decimal.Decimal `json:"liquidity_1"`
}

func (p LiquidityPoint) timestamp() time.Time { return p.Time.Time }

// WalletMove is one balance change of a wallet for one token.
type WalletMove struct {
	Time   Time            `json:"time"`
	Amount decimal.Decimal `json:"amount"`
	Token  string          `json:"token"`
}

func (m WalletMove) timestamp() time.Time { return m.Time.Time }

// Token is the service's token record. The extended fields are zero unless
// the request asked for extended data (or the endpoint always returns it,
// as the token and LP listings do).
type Token struct {
	Active            bool            `json:"active"`
	Chain             int64           `json:"chain"`
	CirculatingSupply decimal.Decimal `json:"circulating_supply"`
	Contract          string          `json:"contract"`
	Decimals          int64           `json:"decimals"`
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Symbol            string          `json:"symbol"`
	TotalSupply       decimal.Decimal `json:"total_supply"`

	LiquidityUSD   decimal.Decimal `json:"liquidity_usd"`
	MarketCap      decimal.Decimal `json:"market_cap"`
	PriceChange24H decimal.Decimal `json:"price_change_24_h"`
	PriceChange7D  decimal.Decimal `json:"price_change_7_d"`
	PricePeg       decimal.Decimal `json:"price_peg"`
	PriceUSD       decimal.Decimal `json:"price_usd"`
	Volume24H      decimal.Decimal `json:"volume_24_h"`
}

// LPToken is a liquidity-pool token with its two pooled sides.
type LPToken struct {
	Chain       int64           `json:"chain"`
	Contract    string          `json:"contract"`
	Decimals    int64           `json:"decimals"`
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Token0      Token           `json:"token_0"`
	Token1      Token           `json:"token_1"`
	TotalSupply decimal.Decimal `json:"total_supply"`
}

// Swap is one recorded swap touching a token or LP pool.
type Swap struct {
	Time          Time            `json:"time"`
	Amount0       decimal.Decimal `json:"amount_0"`
	Amount1       decimal.Decimal `json:"amount_1"`
	TokenContract string          `json:"token_contract"`
	TokenSymbol   string          `json:"token_symbol"`
}

// MarketDepth is one snapshot of a V3 pool's depth ladder. The ladder
// itself arrives as an opaque encoded string.
type MarketDepth struct {
	Time         Time            `json:"time"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Depth        string          `json:"depth"`
}

// Transaction is one on-chain transaction of a wallet.
type Transaction struct {
	Block       int64           `json:"block"`
	FromAddress string          `json:"from_address"`
	Time        Time            `json:"time"`
	ToAddress   string          `json:"to_address"`
	TxFee       decimal.Decimal `json:"tx_fee"`
	TxHash      string          `json:"tx_hash"`
	Value       decimal.Decimal `json:"value"`
}

// Farm is one supported yield platform.
type Farm struct {
	Name     string          `json:"name"`
	TrueName string          `json:"true_name"`
	TVL      decimal.Decimal `json:"tvl"`
}

// Pool is one farm pool.
type Pool struct {
	RewardToken  string `json:"reward_token"`
	Token        string `json:"token"`
	TokenAddress string `json:"token_address"`
}

// OptimizerPool is a pool managed through an optimizer platform.
type OptimizerPool struct {
	FromPlatform string `json:"from_platform"`
	RewardToken  string `json:"reward_token"`
	Token        string `json:"token"`
	TokenAddress string `json:"token_address"`
}

// Pools groups a platform's pools by kind.
type Pools struct {
	LPPools                   []Pool          `json:"lp_pools"`
	OptimizerLPPools          []OptimizerPool `json:"optimizer_lp_pools"`
	OptimizerSingleAssetPools []OptimizerPool `json:"optimizer_single_asset_pools"`
	SingleAssetPools          []Pool          `json:"single_asset_pools"`
}

// PoolInfo is a farm pool with its latest yield stats.
type PoolInfo struct {
	APR          decimal.Decimal `json:"apr"`
	APY          decimal.Decimal `json:"apy"`
	RewardToken  string          `json:"reward_token"`
	Token        string          `json:"token"`
	TokenAddress string          `json:"token_address"`
	TVL          decimal.Decimal `json:"tvl"`
}

// OptimizerPoolInfo is an optimizer-managed pool with its yield stats.
type OptimizerPoolInfo struct {
	APY          decimal.Decimal `json:"apy"`
	FarmAPR      decimal.Decimal `json:"farm_apr"`
	FromPlatform string          `json:"from_platform"`
	RewardToken  string          `json:"reward_token"`
	RewardsAPR   decimal.Decimal `json:"rewards_apr"`
	Token        string          `json:"token"`
	TokenAddress string          `json:"token_address"`
	TVL          decimal.Decimal `json:"tvl"`
}

// PoolsInfo groups a platform's pools with stats by kind.
type PoolsInfo struct {
	LPPools                   []PoolInfo          `json:"lp_pools"`
	OptimizerLPPools          []OptimizerPoolInfo `json:"optimizer_lp_pools"`
	OptimizerSingleAssetPools []OptimizerPoolInfo `json:"optimizer_single_asset_pools"`
	SingleAssetPools          []PoolInfo          `json:"single_asset_pools"`
}

// PoolBalance is a wallet's stake in one pool.
type PoolBalance struct {
	Balance            decimal.Decimal `json:"balance"`
	PendingReward      decimal.Decimal `json:"pending_reward"`
	PendingRewardPrice decimal.Decimal `json:"pending_reward_price"`
	Price              decimal.Decimal `json:"price"`
	RewardToken        string          `json:"reward_token"`
	Token              string          `json:"token"`
	TokenAddress       string          `json:"token_address"`
}

// FarmPortfolio is a wallet's balances on one farm.
type FarmPortfolio struct {
	FarmIcon     string        `json:"farm_icon"`
	FarmName     string        `json:"farm_name"`
	FarmTrueName string        `json:"farm_true_name"`
	PoolsBalance []PoolBalance `json:"pools_balance"`
}

// FarmsPortfolio groups a wallet's farm balances by pool kind.
type FarmsPortfolio struct {
	LPPools                   []FarmPortfolio `json:"lp_pools"`
	OptimizerLPPools          []FarmPortfolio `json:"optimizer_lp_pools"`
	OptimizerSingleAssetPools []FarmPortfolio `json:"optimizer_single_asset_pools"`
	SingleAssetPools          []FarmPortfolio `json:"single_asset_pools"`
}

// TokenBalance is one token position of a wallet.
type TokenBalance struct {
	Balance      decimal.Decimal `json:"balance"`
	TokenAddress string          `json:"token_address"`
	TokenIcon    string          `json:"token_icon"`
	TokenName    string          `json:"token_name"`
	TokenSymbol  string          `json:"token_symbol"`
	USDValue     decimal.Decimal `json:"usd_value"`
}

// PortfolioPoint is one historic portfolio snapshot. The portfolio payload
// arrives as an opaque encoded string.
type PortfolioPoint struct {
	Portfolio string `json:"portfolio"`
	Time      Time   `json:"time"`
}

// DiscordMessage is one public Discord message.
type DiscordMessage struct {
	Content   string `json:"content"`
	CreatedAt Time   `json:"created_at"`
	ID        int64  `json:"id"`
}

// Domain names the outlet a publication came from.
type Domain struct {
	Authority int64  `json:"authority"`
	URL       string `json:"url"`
}

// Tag is one content tag.
type Tag struct {
	ID  int64  `json:"id"`
	Tag string `json:"tag"`
}

// Publication is one public news article.
type Publication struct {
	CreatedAt Time   `json:"created_at"`
	Domain    Domain `json:"domain"`
	Source    string `json:"source"`
	Text      string `json:"text"`
	Title     string `json:"title"`
}

// RedditPost is one tracked Reddit post with engagement stats.
type RedditPost struct {
	CommentCount int64   `json:"comment_count"`
	CreatedAt    Time    `json:"created_at"`
	Domain       Domain  `json:"domain"`
	Emotion      float64 `json:"emotion"`
	ID           int64   `json:"id"`
	PublishedAt  string  `json:"published_at"`
	Source       string  `json:"source"`
	Tags         []Tag   `json:"tags"`
	Title        string  `json:"title"`
	ViewCount    int64   `json:"view_count"`
}

// TelegramMessage is one public Telegram message.
type TelegramMessage struct {
	Content   string `json:"content"`
	CreatedAt Time   `json:"created_at"`
	MessageID int64  `json:"message_id"`
	SentAt    Time   `json:"sent_at"`
}

// Tweet is one tracked tweet.
type Tweet struct {
	Content   string `json:"content"`
	CreatedAt Time   `json:"created_at"`
	TweetID   int64  `json:"tweet_id"`
}
