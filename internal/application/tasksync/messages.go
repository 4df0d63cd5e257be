package tasksync

// User-facing messages
const (
	MsgToggleFailed  = "Failed to update task. Please try again."
	MsgReorderFailed = "Failed to reorder tasks. Please try again."
	MsgCreateFailed  = "Failed to create task. Please try again."
	MsgNetworkError  = "Network error. Please check your connection and try again."
	MsgTaskGone      = "Task not found. It may have been deleted."
	MsgSaveFailed    = "Failed to save. Please try again."
	MsgDeleteFailed  = "Failed to delete. Please try again."
	MsgLoadFailed    = "Unable to load tasks. Please check your connection."
	MsgDetailMissing = "Task not found"
	MsgDetailFailed  = "Unable to load task. Please try again."
)
