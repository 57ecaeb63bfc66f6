// Package adapters pulls in every native integration so that importing it
// for side effects registers the full adapter set.
package adapters

import (
	_ "yieldscan-api/pkg/yields/adapters/aftermath"
	_ "yieldscan-api/pkg/yields/adapters/cetus"
	_ "yieldscan-api/pkg/yields/adapters/lst"
	_ "yieldscan-api/pkg/yields/adapters/navi"
	_ "yieldscan-api/pkg/yields/adapters/scallop"
	_ "yieldscan-api/pkg/yields/adapters/suilend"
	_ "yieldscan-api/pkg/yields/adapters/turbos"
)
