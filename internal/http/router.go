package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"labstock/internal/handlers"
	"labstock/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	itemHandler *handlers.ItemHandler,
	projectHandler *handlers.ProjectHandler,
	allocationHandler *handlers.AllocationHandler,
	borrowingHandler *handlers.BorrowingHandler,
	requestHandler *handlers.RequestHandler,
	transactionHandler *handlers.TransactionHandler,
	competitionHandler *handlers.CompetitionHandler,
	assignmentHandler *handlers.AssignmentHandler,
	historyHandler *handlers.HistoryHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Runs inside route matching so metrics label by path template
	r.Use(middleware.MetricsMiddleware)

	admin := authMiddleware.RequireRole("admin")

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/verify-totp", authHandler.VerifyTOTP).Methods("POST")

	// Authenticated profile and 2FA management
	meAPI := r.PathPrefix("/api/me").Subrouter()
	meAPI.Use(authMiddleware.Authenticate)
	meAPI.HandleFunc("", authHandler.Me).Methods("GET")
	meAPI.HandleFunc("/totp/setup", authHandler.SetupTOTP).Methods("POST")
	meAPI.HandleFunc("/totp/enable", authHandler.EnableTOTP).Methods("POST")
	meAPI.HandleFunc("/totp/disable", authHandler.DisableTOTP).Methods("POST")

	// Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(admin)
	usersAPI.HandleFunc("", userHandler.ListUsers).Methods("GET")
	usersAPI.HandleFunc("", userHandler.CreateUser).Methods("POST")
	usersAPI.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")
	usersAPI.HandleFunc("/{id}", userHandler.UpdateUser).Methods("PUT")
	usersAPI.HandleFunc("/{id}", userHandler.DeactivateUser).Methods("DELETE")

	// Items: all members can browse, only admins mutate
	itemsAPI := r.PathPrefix("/api/items").Subrouter()
	itemsAPI.Use(authMiddleware.Authenticate)
	itemsAPI.HandleFunc("", itemHandler.ListItems).Methods("GET")
	itemsAPI.HandleFunc("", admin(http.HandlerFunc(itemHandler.CreateItem)).ServeHTTP).Methods("POST")
	itemsAPI.HandleFunc("/{id}", itemHandler.GetItem).Methods("GET")
	itemsAPI.HandleFunc("/{id}", admin(http.HandlerFunc(itemHandler.UpdateItem)).ServeHTTP).Methods("PUT")
	itemsAPI.HandleFunc("/{id}", admin(http.HandlerFunc(itemHandler.DeleteItem)).ServeHTTP).Methods("DELETE")
	itemsAPI.HandleFunc("/{id}/transactions", transactionHandler.ListTransactions).Methods("GET")

	// Projects
	projectsAPI := r.PathPrefix("/api/projects").Subrouter()
	projectsAPI.Use(authMiddleware.Authenticate)
	projectsAPI.HandleFunc("", projectHandler.ListProjects).Methods("GET")
	projectsAPI.HandleFunc("", projectHandler.CreateProject).Methods("POST")
	projectsAPI.HandleFunc("/{id}", projectHandler.GetProject).Methods("GET")
	projectsAPI.HandleFunc("/{id}", admin(http.HandlerFunc(projectHandler.UpdateProject)).ServeHTTP).Methods("PUT")
	projectsAPI.HandleFunc("/{id}", admin(http.HandlerFunc(projectHandler.DeleteProject)).ServeHTTP).Methods("DELETE")
	projectsAPI.HandleFunc("/{id}/allocations", projectHandler.ListProjectAllocations).Methods("GET")

	// Allocations (admin only, they move stock)
	allocationsAPI := r.PathPrefix("/api/allocations").Subrouter()
	allocationsAPI.Use(admin)
	allocationsAPI.HandleFunc("", allocationHandler.ListAllocations).Methods("GET")
	allocationsAPI.HandleFunc("", allocationHandler.CreateAllocation).Methods("POST")
	allocationsAPI.HandleFunc("/{id}", allocationHandler.GetAllocation).Methods("GET")
	allocationsAPI.HandleFunc("/{id}", allocationHandler.DeleteAllocation).Methods("DELETE")

	// Borrowings: issue/return are admin, members see their own
	borrowingsAPI := r.PathPrefix("/api/borrowings").Subrouter()
	borrowingsAPI.Use(authMiddleware.Authenticate)
	borrowingsAPI.HandleFunc("", admin(http.HandlerFunc(borrowingHandler.ListBorrowings)).ServeHTTP).Methods("GET")
	borrowingsAPI.HandleFunc("", admin(http.HandlerFunc(borrowingHandler.IssueBorrowing)).ServeHTTP).Methods("POST")
	borrowingsAPI.HandleFunc("/mine", borrowingHandler.ListMyBorrowings).Methods("GET")
	borrowingsAPI.HandleFunc("/{id}", borrowingHandler.GetBorrowing).Methods("GET")
	borrowingsAPI.HandleFunc("/{id}/return", admin(http.HandlerFunc(borrowingHandler.ReturnBorrowing)).ServeHTTP).Methods("POST")

	// Requests: members create and cancel, admins resolve
	requestsAPI := r.PathPrefix("/api/requests").Subrouter()
	requestsAPI.Use(authMiddleware.Authenticate)
	requestsAPI.HandleFunc("", admin(http.HandlerFunc(requestHandler.ListRequests)).ServeHTTP).Methods("GET")
	requestsAPI.HandleFunc("", requestHandler.CreateRequest).Methods("POST")
	requestsAPI.HandleFunc("/mine", requestHandler.ListMyRequests).Methods("GET")
	requestsAPI.HandleFunc("/{id}", requestHandler.GetRequest).Methods("GET")
	requestsAPI.HandleFunc("/{id}/approve", admin(http.HandlerFunc(requestHandler.ApproveRequest)).ServeHTTP).Methods("POST")
	requestsAPI.HandleFunc("/{id}/reject", admin(http.HandlerFunc(requestHandler.RejectRequest)).ServeHTTP).Methods("POST")
	requestsAPI.HandleFunc("/{id}/cancel", requestHandler.CancelRequest).Methods("POST")

	// Transactions (admin only)
	transactionsAPI := r.PathPrefix("/api/transactions").Subrouter()
	transactionsAPI.Use(admin)
	transactionsAPI.HandleFunc("", transactionHandler.ListTransactions).Methods("GET")
	transactionsAPI.HandleFunc("", transactionHandler.CreateTransaction).Methods("POST")

	// Competitions
	competitionsAPI := r.PathPrefix("/api/competitions").Subrouter()
	competitionsAPI.Use(authMiddleware.Authenticate)
	competitionsAPI.HandleFunc("", competitionHandler.ListCompetitions).Methods("GET")
	competitionsAPI.HandleFunc("", admin(http.HandlerFunc(competitionHandler.CreateCompetition)).ServeHTTP).Methods("POST")
	competitionsAPI.HandleFunc("/{id}", competitionHandler.GetCompetition).Methods("GET")
	competitionsAPI.HandleFunc("/{id}/items", competitionHandler.ListCompetitionItems).Methods("GET")
	competitionsAPI.HandleFunc("/{id}/items", admin(http.HandlerFunc(competitionHandler.AddCompetitionItem)).ServeHTTP).Methods("POST")
	competitionsAPI.HandleFunc("/{id}/items/{itemId}", admin(http.HandlerFunc(competitionHandler.RemoveCompetitionItem)).ServeHTTP).Methods("DELETE")

	// Assignments and submissions
	assignmentsAPI := r.PathPrefix("/api/assignments").Subrouter()
	assignmentsAPI.Use(authMiddleware.Authenticate)
	assignmentsAPI.HandleFunc("", assignmentHandler.ListAssignments).Methods("GET")
	assignmentsAPI.HandleFunc("", admin(http.HandlerFunc(assignmentHandler.CreateAssignment)).ServeHTTP).Methods("POST")
	assignmentsAPI.HandleFunc("/{id}", assignmentHandler.GetAssignment).Methods("GET")
	assignmentsAPI.HandleFunc("/{id}/submissions", assignmentHandler.ListSubmissions).Methods("GET")
	assignmentsAPI.HandleFunc("/{id}/submissions", assignmentHandler.SubmitAssignment).Methods("POST")
	assignmentsAPI.HandleFunc("/{id}/submissions/{submissionId}/file", assignmentHandler.DownloadSubmission).Methods("GET")

	// History (admin only, read only)
	historyAPI := r.PathPrefix("/api/history").Subrouter()
	historyAPI.Use(admin)
	historyAPI.HandleFunc("", historyHandler.ListHistory).Methods("GET")

	// Reports (admin only)
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(admin)
	reportsAPI.HandleFunc("/inventory.pdf", reportHandler.InventoryPDF).Methods("GET")
	reportsAPI.HandleFunc("/inventory.csv", reportHandler.InventoryCSV).Methods("GET")
	reportsAPI.HandleFunc("/borrowings.csv", reportHandler.BorrowingsCSV).Methods("GET")
	reportsAPI.HandleFunc("/borrow-slip/{id}.pdf", reportHandler.BorrowSlipPDF).Methods("GET")

	// Health endpoints (no auth, for probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
