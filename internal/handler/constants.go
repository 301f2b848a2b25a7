package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteIndex is the alias for the front page.
	RouteIndex = "/index/"
	// RoutePage is the paginated listing route pattern.
	RoutePage = "/page/{num}/"
	// RouteArticle is the post detail route pattern.
	RouteArticle = "/article/{title}/"
	// RouteCategoryYear is the year archive route pattern.
	RouteCategoryYear = "/category/{year}/"
	// RouteAllPosts is the full listing route.
	RouteAllPosts = "/all_posts/"
	// RouteSearch is the search route.
	RouteSearch = "/search/"
	// RouteAbout is the about page route.
	RouteAbout = "/about/"
	// RouteContact is the contact page route.
	RouteContact = "/contact/"
	// RouteNotFound is the explicit 404 page route.
	RouteNotFound = "/not_found/"
	// RouteAddComment is the comment submission route.
	RouteAddComment = "/add_comment/"
	// RouteAddContact is the contact submission route.
	RouteAddContact = "/add_contact/"
	// RouteUserLikes is the like counter route.
	RouteUserLikes = "/user_likes/"

	// Admin routes, relative to the /admin mount point.

	// RouteAdminLogin is the login form route.
	RouteAdminLogin = "/login/"
	// RouteAdminRegister is the registration form route.
	RouteAdminRegister = "/register/"
	// RouteAdminUserExist is the username availability check route.
	RouteAdminUserExist = "/user_exist/"
	// RouteAdminEmailExist is the email availability check route.
	RouteAdminEmailExist = "/email_exist/"
	// RouteAdminLogout is the logout route.
	RouteAdminLogout = "/logout/"
	// RouteAdminDashboard is the dashboard route.
	RouteAdminDashboard = "/dashboard/"
	// RouteAdminWritePost is the new post form route.
	RouteAdminWritePost = "/write_post/"
	// RouteAdminResetPassword is the password change route.
	RouteAdminResetPassword = "/reset_password/"
	// RouteAdminAllPosts is the author's post listing route.
	RouteAdminAllPosts = "/all_posts/"
	// RouteAdminTodayComments is the daily comment report route.
	RouteAdminTodayComments = "/today_comments/"
	// RouteAdminGuestMessages is the guest message report route.
	RouteAdminGuestMessages = "/all_guests_messages/"
	// RouteAdminAboutSelf is the account info route.
	RouteAdminAboutSelf = "/about_self/"
	// RouteAdminEditPost is the edit form route pattern.
	RouteAdminEditPost = "/{title}/"
)

// Absolute redirect targets.
const (
	redirectLogin     = "/admin/login/"
	redirectDashboard = "/admin/dashboard/"
)
