package sentiment

// BullishKeywords are lowercase terms that push the impact score up.
// Matching is substring-based, so "beat" also matches "beating".
var BullishKeywords = []string{
	"growth", "earnings", "profit", "surge", "soar", "record", "beat", "exceed",
	"bullish", "rally", "gain", "rise", "boost", "strong", "outperform", "upgrade",
	"buy", "optimistic", "revenue", "success", "innovation", "expansion", "dividend",
}

// BearishKeywords are lowercase terms that push the impact score down.
var BearishKeywords = []string{
	"loss", "decline", "drop", "fall", "crash", "plunge", "miss", "layoff",
	"bearish", "sell", "downgrade", "weak", "risk", "debt", "lawsuit", "scandal",
	"recession", "inflation", "warning", "bankruptcy", "cut", "slump", "concern",
}

// companyTicker maps a lowercase company name (or symbol) to its ticker.
type companyTicker struct {
	name   string
	symbol string
}

// companyTickers is searched in order; the first contained name wins, so
// entries that are substrings of others ("goldman" in "goldman sachs")
// resolve to the same symbol either way.
var companyTickers = []companyTicker{
	{"apple", "AAPL"}, {"aapl", "AAPL"},
	{"microsoft", "MSFT"}, {"msft", "MSFT"},
	{"google", "GOOGL"}, {"alphabet", "GOOGL"}, {"googl", "GOOGL"},
	{"amazon", "AMZN"}, {"amzn", "AMZN"},
	{"meta", "META"}, {"facebook", "META"},
	{"tesla", "TSLA"}, {"tsla", "TSLA"},
	{"nvidia", "NVDA"}, {"nvda", "NVDA"},
	{"netflix", "NFLX"}, {"nflx", "NFLX"},
	{"adobe", "ADBE"}, {"intel", "INTC"}, {"amd", "AMD"},
	{"ibm", "IBM"}, {"oracle", "ORCL"}, {"salesforce", "CRM"},
	{"paypal", "PYPL"}, {"uber", "UBER"}, {"spotify", "SPOT"},
	{"jpmorgan", "JPM"}, {"jp morgan", "JPM"},
	{"goldman sachs", "GS"}, {"goldman", "GS"},
	{"bank of america", "BAC"}, {"wells fargo", "WFC"},
	{"visa", "V"}, {"mastercard", "MA"},
	{"walmart", "WMT"}, {"target", "TGT"}, {"costco", "COST"},
	{"nike", "NKE"}, {"starbucks", "SBUX"},
	{"mcdonald", "MCD"}, {"mcdonalds", "MCD"},
	{"coca cola", "KO"}, {"coca-cola", "KO"}, {"coke", "KO"},
	{"pepsi", "PEP"}, {"pepsico", "PEP"},
	{"disney", "DIS"}, {"walt disney", "DIS"},
	{"pfizer", "PFE"}, {"moderna", "MRNA"}, {"merck", "MRK"},
	{"boeing", "BA"}, {"ford", "F"}, {"gm", "GM"}, {"general motors", "GM"},
	{"exxon", "XOM"}, {"chevron", "CVX"},
	{"berkshire", "BRK-B"}, {"berkshire hathaway", "BRK-B"},
}

// prioritySymbols are explicit uppercase tokens accepted before the
// company-name pass. It is intentionally narrower than companyTickers.
var prioritySymbols = map[string]struct{}{
	"AAPL": {}, "MSFT": {}, "GOOGL": {}, "AMZN": {}, "META": {},
	"TSLA": {}, "NVDA": {}, "NFLX": {}, "JPM": {}, "BAC": {},
	"WMT": {}, "DIS": {}, "KO": {}, "PEP": {}, "NKE": {},
}
