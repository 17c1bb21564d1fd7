package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chirp/backend/internal/social"
)

const (
	principalKey = "principal"
	loaderKey    = "userLoader"

	headerUserUID      = "X-User-Uid"
	headerUserVerified = "X-User-Verified"
)

// registerRoutes wires the engine's mutations and queries onto the router.
// The gateway in front of this service authenticates callers and injects the
// principal headers; this layer only parses them.
func registerRoutes(router *gin.Engine, engine *social.Engine, store social.Store, log *zap.Logger) {
	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Identity replication hook, called by the identity store on registration
	router.POST("/hooks/user-registered", func(c *gin.Context) {
		var req struct {
			UID string `json:"uid" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := engine.EnsureUser(c.Request.Context(), req.UID)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, user)
	})

	api := router.Group("/api")
	api.Use(principalMiddleware(store))
	{
		api.POST("/tweets", func(c *gin.Context) {
			var req struct {
				Content  string   `json:"content"`
				Hashtags []string `json:"hashtags"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			tweet, err := engine.CreateTweet(c.Request.Context(), principal(c), req.Content, req.Hashtags)
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusCreated, tweet)
		})

		api.POST("/tweets/:uid/retweet", func(c *gin.Context) {
			retweet, err := engine.CreateRetweet(c.Request.Context(), principal(c), c.Param("uid"))
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusCreated, retweet)
		})

		api.GET("/tweets/:uid/comments", func(c *gin.Context) {
			comments, err := engine.CommentsOf(c.Request.Context(), c.Param("uid"), "TweetType")
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, comments)
		})

		api.GET("/retweets/:uid/comments", func(c *gin.Context) {
			comments, err := engine.CommentsOf(c.Request.Context(), c.Param("uid"), "ReTweetType")
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, comments)
		})

		api.POST("/likes", func(c *gin.Context) {
			var req struct {
				UID  string `json:"uid" binding:"required"`
				Type string `json:"type" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			content, err := engine.Like(c.Request.Context(), principal(c), req.UID, req.Type)
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusCreated, contentEnvelope(content))
		})

		api.DELETE("/likes", func(c *gin.Context) {
			var req struct {
				UID  string `json:"uid" binding:"required"`
				Type string `json:"type" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			content, err := engine.Unlike(c.Request.Context(), principal(c), req.UID, req.Type)
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, contentEnvelope(content))
		})

		api.POST("/comments", func(c *gin.Context) {
			var req struct {
				UID     string `json:"uid" binding:"required"`
				Type    string `json:"type" binding:"required"`
				Content string `json:"content"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			comment, err := engine.Comment(c.Request.Context(), principal(c), req.UID, req.Type, req.Content)
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusCreated, comment)
		})

		api.POST("/users/:uid/follow", func(c *gin.Context) {
			user, err := engine.Follow(c.Request.Context(), principal(c), c.Param("uid"))
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusCreated, user)
		})

		api.DELETE("/users/:uid/follow", func(c *gin.Context) {
			user, err := engine.Unfollow(c.Request.Context(), principal(c), c.Param("uid"))
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, user)
		})

		api.GET("/users/:uid", func(c *gin.Context) {
			user, err := userLoader(c).Load(c.Request.Context(), c.Param("uid"))
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, user)
		})

		api.GET("/users/:uid/followers", func(c *gin.Context) {
			if _, err := userLoader(c).Load(c.Request.Context(), c.Param("uid")); err != nil {
				respondError(c, log, err)
				return
			}
			followers, err := engine.Followers(c.Request.Context(), c.Param("uid"))
			if err != nil {
				respondError(c, log, err)
				return
			}
			userLoader(c).Prime(followers...)
			c.JSON(http.StatusOK, followers)
		})

		api.GET("/users/:uid/following", func(c *gin.Context) {
			if _, err := userLoader(c).Load(c.Request.Context(), c.Param("uid")); err != nil {
				respondError(c, log, err)
				return
			}
			following, err := engine.Following(c.Request.Context(), c.Param("uid"))
			if err != nil {
				respondError(c, log, err)
				return
			}
			userLoader(c).Prime(following...)
			c.JSON(http.StatusOK, following)
		})

		api.GET("/users/:uid/content", func(c *gin.Context) {
			skip, limit := pageParams(c)
			items, err := engine.ProfileContent(c.Request.Context(), c.Param("uid"), skip, limit)
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, contentList(items))
		})

		api.GET("/feed", func(c *gin.Context) {
			skip, limit := pageParams(c)
			items, err := engine.Feed(c.Request.Context(), principal(c), skip, limit)
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, contentList(items))
		})

		api.GET("/hashtags/:tag", func(c *gin.Context) {
			hashtag, err := engine.Hashtag(c.Request.Context(), c.Param("tag"))
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, hashtag)
		})

		api.GET("/hashtags/:tag/tweets", func(c *gin.Context) {
			skip, limit := pageParams(c)
			tweets, err := engine.SearchByHashtag(c.Request.Context(), c.Param("tag"), skip, limit)
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, tweets)
		})
	}
}

// principalMiddleware parses the gateway-injected identity headers and
// attaches the principal and a request-scoped user loader to the context
func principalMiddleware(store social.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := social.Anonymous
		if uid := c.GetHeader(headerUserUID); uid != "" {
			p = social.Principal{
				UserUID:         uid,
				IsAuthenticated: true,
				IsVerified:      c.GetHeader(headerUserVerified) == "true",
			}
		}
		c.Set(principalKey, p)
		c.Set(loaderKey, social.NewUserLoader(store))
		c.Next()
	}
}

func principal(c *gin.Context) social.Principal {
	if val, ok := c.Get(principalKey); ok {
		if p, ok := val.(social.Principal); ok {
			return p
		}
	}
	return social.Anonymous
}

func userLoader(c *gin.Context) *social.UserLoader {
	val, _ := c.Get(loaderKey)
	return val.(*social.UserLoader)
}

func pageParams(c *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return skip, limit
}
