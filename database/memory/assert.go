package memory

import "blog/database"

var (
	_ database.PostStore         = (*PostStore)(nil)
	_ database.CommentStore      = (*CommentStore)(nil)
	_ database.CategoryStore     = (*CategoryStore)(nil)
	_ database.UserStore         = (*UserStore)(nil)
	_ database.SubscriptionStore = (*SubscriptionStore)(nil)
)
