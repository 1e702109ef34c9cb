// Package instruments holds the fixed table of tracked ETFs. The table
// is deploy-time configuration: read-only after process start, and the
// persisted series header must match it exactly.
package instruments

import "github.com/vadiminshakov/duratrack/internal/domain"

var table = []domain.Instrument{
	{
		Code: "ISHARESIDD.JPMEMBONDSETF.EFFECTDUR.B",
		Name: "JPM EM Bonds ETF",
		URL:  "https://www.ishares.com/us/products/239572/ishares-jp-morgan-usd-emerging-markets-bond-etf",
	},
	{
		Code: "ISHARESIDD.IBOXXHIGHYIELDCORPBONDETF.EFFECTDUR.B",
		Name: "Iboxx High Yield Corp Bond ETF",
		URL:  "https://www.ishares.com/us/products/239565/ishares-iboxx-high-yield-corporate-bond-etf",
	},
	{
		Code: "ISHARESIDD.IBOXXIGCORPBONDETF.EFFECTDUR.B",
		Name: "Iboxx IG Corp Bond ETF",
		URL:  "https://www.ishares.com/us/products/239566/ishares-iboxx-investment-grade-corporate-bond-etf",
	},
	{
		Code: "ISHARESIDD.TIPSBONDETF.EFFECTDUR.B",
		Name: "TIPS Bond ETF",
		URL:  "https://www.ishares.com/us/products/239467/ishares-tips-bond-etf",
	},
	{
		Code: "ISHARESIDD.20YRTREASURYBONDETF.EFFECTDUR.B",
		Name: "20 Yr Treasury Bond ETF",
		URL:  "https://www.ishares.com/us/products/239454/ishares-20-year-treasury-bond-etf",
	},
	{
		Code: "ISHARESIDD.710YEARTREASURYBONDETF.EFFECTDUR.B",
		Name: "7-10 Year Treasury Bond ETF",
		URL:  "https://www.ishares.com/us/products/239456/",
	},
	{
		Code: "ISHARESIDD.JPMORGANEMBONDUCITSETFUSD.EFFECTDUR.B",
		Name: "iShares J.P. Morgan $ EM Bond UCITS ETF",
		URL:  "https://www.ishares.com/uk/individual/en/products/251824/ishares-jp-morgan-emerging-markets-bond-ucits-etf",
	},
	{
		Code: "ISHARESIDD.TREASURYBOND13YRUCITSETFUSD.EFFECTDUR.B",
		Name: "iShares $ Treasury Bond 1-3yr UCITS ETF",
		URL:  "https://www.ishares.com/uk/individual/en/products/251715/ishares-treasury-bond-13yr-ucits-etf",
	},
	{
		Code: "ISHARESIDD.HIGHYIELDCORPBONDUCITSETFUSD.EFFECTDUR.B",
		Name: "iShares $ High Yield Corp Bond UCITS ETF",
		URL:  "https://www.ishares.com/uk/individual/en/products/251833/ishares-high-yield-corporate-bond-ucits-etf",
	},
	{
		Code: "ISHARESIDD.CORPBOND15YRUCITSETFEUR.EFFECTDUR.B",
		Name: "iShares € Corp Bond 1-5yr UCITS ETF",
		URL:  "https://www.ishares.com/uk/individual/en/products/251728/ishares-euro-corporate-bond-15yr-ucits-etf",
	},
	{
		Code: "ISHARESIDD.HIGHYIELDCORPBONDUCITSETFEUR.EFFECTDUR.B",
		Name: "iShares € High Yield Corp Bond UCITS ETF",
		URL:  "https://www.ishares.com/uk/individual/en/products/251843/ishares-euro-high-yield-corporate-bond-ucits-etf",
	},
	{
		Code: "ISHARESIDD.CORECORPBONDUCITSETFEUR.EFFECTDUR.B",
		Name: "iShares Core € Corp Bond UCITS ETF",
		URL:  "https://www.ishares.com/uk/individual/en/products/251726/ishares-euro-corporate-bond-ucits-etf",
	},
	{
		Code: "ISHARESIDD.MBSETF.EFFECTDUR.B",
		Name: "iShares MBS ETF",
		URL:  "https://www.ishares.com/us/products/239465/ishares-mbs-etf",
	},
	{
		Code: "ISHARESIDD.SHORTTERMCORPORATEBONDETF.EFFECTDUR.B",
		Name: "iShares Short-Term Corporate Bond ETF",
		URL:  "https://www.ishares.com/us/products/239451/ishares-13-year-credit-bond-etf",
	},
	{
		Code: "ISHARESIDD.INTERMEDIATETERMCORPORATEBONDETF.EFFECTDUR.B",
		Name: "iShares Intermediate-Term Corporate Bond ETF",
		URL:  "https://www.ishares.com/us/products/239463/ishares-intermediate-credit-bond-etf",
	},
}

// All returns the ordered instrument table.
func All() []domain.Instrument {
	out := make([]domain.Instrument, len(table))
	copy(out, table)
	return out
}

// ByName returns the instrument with the given friendly name.
func ByName(name string) (domain.Instrument, bool) {
	for _, ins := range table {
		if ins.Name == name {
			return ins, true
		}
	}
	return domain.Instrument{}, false
}
