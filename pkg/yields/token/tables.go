package token

// coinTypeSymbols maps well-known Sui coin types to display symbols. Exact
// matches here win over any parsing heuristics.
var coinTypeSymbols = map[string]string{
	// Native SUI
	"0x2::sui::SUI": "SUI",

	// USDC variants
	"0xdba34672e30cb065b1f93e3ab55318768fd6fef66c15942c9f7cb846e2f900e7::usdc::USDC": "USDC",
	"0x5d4b302506645c37ff133b98c4b50a5ae14841659738d6d733d59d0d217a93bf::coin::COIN": "wUSDC",

	// USDT variants
	"0xc060006111016b8a020ad5b33834984a437aaa7d3c74c18e09a95d48aceab08c::coin::COIN": "wUSDT",
	"0x375f70cf2ae4c00bf37117d0c85a2c71545e6ee05c4a5c7d282cd66a4504b068::usdt::USDT": "USDT",

	// Wrapped ETH / BTC
	"0xaf8cd5edc19c4512f4259f0bee101a40d41ebed738ade5874359610ef8eeced5::coin::COIN": "wETH",
	"0xd0e89b2af5e4910726fbcd8b8dd37bb79b29e5f83f7491bca830e94f7f226d29::eth::ETH":   "ETH",
	"0x027792d9fed7f9844eb4839566001bb6f6cb4804f66aa2da6fe1ee242d896881::coin::COIN": "wBTC",

	// Stablecoins
	"0x909cba62ce96d54de25bec9502de5ca7b4f28901747bbf96b76c2e63ec5f1cba::sbuck::SBUCK": "SBUCK",
	"0xce7ff77a83ea0cb6fd39bd8748e2ec89a3f41e8efdc3f4eb123e0ca37b184db2::buck::BUCK":   "BUCK",
	"0x960b531667636f39e85867775f52f6b1f220a058c4de786905bdf761e06a56bb::usdy::USDY":   "USDY",
	"0x2053d08c1e2bd02791056171aab0fd12bd7cd7efad2ab8f6b9c8902f14df2ff2::ausd::AUSD":   "AUSD",
	"0xa99b8952d4f7d947ea77fe0ecdcc9e5fc0bcab2841d6e2a5aa00c3044e5544b5::navx::NAVX":   "NAVX",

	// Liquid staking tokens
	"0xbde4ba4c2e274a60ce15c1cfff9e5c42e136a8bc::certSUI::CERTSUI":                              "vSUI",
	"0x549e8b69270defbfafd4f94e17ec44cdbdd99820b33bda2278dea3b9a32d3f55::cert::CERT":            "vSUI",
	"0x83556891f4a0f233ce7b05cfe7f957d4020492a34f5405b2cb9377d060bef4bf::spring_sui::SPRING_SUI": "sSUI",
	"0xf325ce1300e8dac124071d3152c5c5ee6174914f8bc2161e88329cf579246efc::afsui::AFSUI":          "afSUI",
	"0xbde4ba4c2e274a60ce15c1cfff9e5c42e136a8bc::hasui::HASUI":                                  "haSUI",

	// Protocol tokens
	"0x06864a6f921804860930db6ddbe2e16acdf8504495ea7481637a1c8b9a8fe54b::cetus::CETUS": "CETUS",
	"0xa198f3be41cda8c07b3bf3fee02263526e535d682499806979a111e88a5a8d0f::coin::COIN":   "BLUE",
	"0x7016aae72cfc67f2fadf55769c0a7dd54291a583b63051a5ed71081cce836ac6::sca::SCA":     "SCA",
	"0x5145494a5f5100e645e4b0aa950fa6b68f614e8c59e17bc5ded3495123a79178::coin::COIN":   "TURBOS",
	"0xdeeb7a4662eec9f2f3def03fb937a663dddaa2e215b8078a284d026b7946c270::deep::DEEP":   "DEEP",

	// WAL
	"0x9f992cc2430a1f442ca7a5ca7638169f5d5c00e0ebc3977a65e9ac6e497fe5ef::wal::WAL": "WAL",

	// Meme tokens
	"0xb7844e289a8410e50fb3ca48d69eb9cf29e27d223ef90353fe1bd8e27ff8f3f8::coin::COIN": "FUD",
	"0x76cb819b01abed502bee8a702b4c2d547532c12f25001c9dea795a5e631c26f1::fud::FUD":   "FUD",
}

// rewardSymbols lists reward tokens handed out by Sui protocols. Already in
// display form; lookup is an identity check before falling back to Normalize.
var rewardSymbols = map[string]string{
	"BLUE":   "BLUE",
	"SCA":    "SCA",
	"CETUS":  "CETUS",
	"DEEP":   "DEEP",
	"MMT":    "MMT",
	"SAIL":   "SAIL",
	"NAVX":   "NAVX",
	"TURBOS": "TURBOS",
	"vSUI":   "vSUI",
	"stSUI":  "stSUI",
	"afSUI":  "afSUI",
	"haSUI":  "haSUI",
	"sSUI":   "sSUI",
}

// Stablecoins on Sui, by display symbol.
var stablecoins = map[string]bool{
	"USDC":  true,
	"USDT":  true,
	"USDY":  true,
	"AUSD":  true,
	"BUCK":  true,
	"SBUCK": true,
}

// IsStablecoin reports whether the given display symbol is a known stablecoin.
func IsStablecoin(symbol string) bool {
	return stablecoins[Normalize(symbol)]
}
