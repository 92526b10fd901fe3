package mock

import (
	clock "github.com/appendlog/pageblob/pkg/pageblob/clock"
	store "github.com/appendlog/pageblob/pkg/pageblob/store"
	util "github.com/appendlog/pageblob/pkg/pageblob/util"
)

var (
	_ store.BlockStore = (*MockBlockStore)(nil)
	_ clock.Clock      = (*MockClock)(nil)
	_ clock.Timer      = (*MockTimer)(nil)
	_ util.ErrorLogger = (*MockErrorLogger)(nil)
)
