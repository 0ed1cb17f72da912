package slack

var (
	BuildTransitionBlocks = buildTransitionBlocks
	BuildOverdueBlocks    = buildOverdueBlocks
	BuildDocumentBlocks   = buildDocumentBlocks
)
