package gateway

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chocolate-network/ledger/src/engine"
	"github.com/chocolate-network/ledger/src/gateway/request"
	"github.com/chocolate-network/ledger/src/gateway/response"
	"github.com/chocolate-network/ledger/src/ledger"

	"github.com/gin-gonic/gin"
)

// approverOnly guards endpoints behind the configured bearer token.
// An empty token keeps the endpoints disabled.
func (self *Server) approverOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := self.Config.Gateway.ApproverToken
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "approver endpoints disabled"})
			return
		}

		header := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid approver token"})
			return
		}

		c.Next()
	}
}

func (self *Server) onCreateProject(c *gin.Context) {
	var in request.CreateProject
	err := c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := self.engine.CreateProject(ledger.AccountID(in.Owner), []byte(in.Metadata))
	if err != nil {
		self.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, &response.CreateProject{Id: id})
}

func (self *Server) onGetProject(c *gin.Context) {
	id, err := parseProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, ok := self.engine.GetProject(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": engine.ErrNoProjectWithID.Error()})
		return
	}

	c.JSON(http.StatusOK, response.ProjectToResponse(&project))
}

func (self *Server) onCreateReview(c *gin.Context) {
	id, err := parseProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var in request.CreateReview
	err = c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = self.engine.CreateReview(
		ledger.AccountID(in.Reviewer),
		id,
		in.Score,
		[]byte(in.Content),
		ledger.CurrencyID(in.CollateralCurrency),
	)
	if err != nil {
		self.abortWithError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

func (self *Server) onGetReview(c *gin.Context) {
	id, err := parseProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, ok := self.engine.GetReview(ledger.AccountID(c.Param("reviewer")), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": engine.ErrReviewNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, response.ReviewToResponse(&review))
}

func (self *Server) onAcceptProject(c *gin.Context) {
	id, err := parseProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = self.engine.AcceptProject(id)
	if err != nil {
		self.abortWithError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (self *Server) onAcceptReview(c *gin.Context) {
	id, err := parseProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = self.engine.AcceptReview(ledger.AccountID(c.Param("reviewer")), id)
	if err != nil {
		self.abortWithError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (self *Server) onMint(c *gin.Context) {
	var in request.Mint
	err := c.ShouldBindJSON(&in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	self.engine.Mint(ledger.Balance(in.Amount))

	c.Status(http.StatusOK)
}

func (self *Server) onGetState(c *gin.Context) {
	report := self.monitor.GetReport()
	report.Run.State.UpForSeconds.Store(uint64(time.Now().Unix() - report.Run.State.StartTimestamp.Load()))
	c.JSON(http.StatusOK, report)
}

func (self *Server) onGetHealth(c *gin.Context) {
	if self.monitor.IsOK() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusServiceUnavailable)
	}
}

func parseProjectID(c *gin.Context) (id engine.ProjectID, err error) {
	parsed, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return
	}
	return engine.ProjectID(parsed), nil
}

func (self *Server) abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrNoProjectWithID),
		errors.Is(err, engine.ErrReviewNotFound):
		return http.StatusNotFound

	case errors.Is(err, engine.ErrReviewScoreOutOfRange),
		errors.Is(err, engine.ErrOwnerReviewedProject),
		errors.Is(err, engine.ErrNativeCollateral),
		errors.Is(err, engine.ErrMetadataTooLong):
		return http.StatusBadRequest

	case errors.Is(err, engine.ErrInsufficientBalance):
		return http.StatusPaymentRequired

	case errors.Is(err, engine.ErrDuplicateReview),
		errors.Is(err, engine.ErrAlreadyOwnsProject),
		errors.Is(err, engine.ErrAcceptingNotProposed),
		errors.Is(err, engine.ErrRewardInconsistent),
		errors.Is(err, engine.ErrInconsistentCollateral):
		return http.StatusConflict

	case errors.Is(err, engine.ErrStorageOverflow):
		return http.StatusInsufficientStorage

	default:
		return http.StatusInternalServerError
	}
}
