package api

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"smartoffice/internal/automation"
	"smartoffice/internal/db"
	"smartoffice/internal/models"
	"smartoffice/internal/taskqueue"
	"smartoffice/internal/web/middleware"
	webModels "smartoffice/internal/web/models"
)

// EngineInterface defines the methods needed from the engine
type EngineInterface interface {
	Forget(ruleID string)
}

func RegisterAutomationRoutes(router *gin.Engine, middlewareManager *middleware.MiddlewareManager, ruleStore *automation.Store, engine EngineInterface, dbConn *db.DB) {
	automations := router.Group("/automations")
	automations.Use(middlewareManager.RequireAuth())
	{
		automations.GET("/rules", func(c *gin.Context) {
			rules, err := ruleStore.List(c)
			if err != nil {
				log.Printf("WEB: failed to list rules: %v", err)
				c.JSON(500, gin.H{"error": "Failed to fetch rules"})
				return
			}
			c.JSON(200, rules)
		})

		automations.POST("/rules", func(c *gin.Context) {
			var req webModels.AddRuleRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}
			enabled := true
			if req.Enabled != nil {
				enabled = *req.Enabled
			}
			rule, err := ruleStore.Create(c, models.Rule{
				Name:             req.Name,
				Description:      req.Description,
				Type:             req.Type,
				Condition:        req.Condition,
				Action:           req.Action,
				ActionValue:      req.ActionValue,
				Priority:         req.Priority,
				Enabled:          enabled,
				SendNotification: req.SendNotification,
			})
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			if rule.Enabled {
				if err := taskqueue.EnqueueRuleEvaluation(rule.ID); err != nil {
					log.Printf("WEB: failed to enqueue evaluation for rule %s: %v", rule.ID, err)
				}
			}
			c.JSON(201, rule)
		})

		automations.GET("/rules/export", func(c *gin.Context) {
			rules, err := ruleStore.Export(c)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to export rules"})
				return
			}
			c.Header("Content-Disposition", "attachment; filename=automation-rules.json")
			c.JSON(200, gin.H{"rules": rules, "exportedAt": time.Now()})
		})

		automations.POST("/rules/import", func(c *gin.Context) {
			var req webModels.ImportRulesRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}
			count, err := ruleStore.Import(c, req.Rules)
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			c.JSON(200, gin.H{"imported": count})
		})

		automations.POST("/rules/enable-all", func(c *gin.Context) {
			count, err := ruleStore.SetAllEnabled(c, true)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to enable rules"})
				return
			}
			c.JSON(200, gin.H{"changed": count})
		})

		automations.POST("/rules/disable-all", func(c *gin.Context) {
			count, err := ruleStore.SetAllEnabled(c, false)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to disable rules"})
				return
			}
			c.JSON(200, gin.H{"changed": count})
		})

		automations.GET("/rules/:id", func(c *gin.Context) {
			rule, err := ruleStore.Get(c, c.Param("id"))
			if errors.Is(err, automation.ErrRuleNotFound) {
				c.JSON(404, gin.H{"error": "Rule not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch rule"})
				return
			}
			c.JSON(200, rule)
		})

		automations.PUT("/rules/:id", func(c *gin.Context) {
			var req webModels.UpdateRuleRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}
			rule, err := ruleStore.Update(c, c.Param("id"), func(r *models.Rule) {
				if req.Name != nil {
					r.Name = *req.Name
				}
				if req.Description != nil {
					r.Description = *req.Description
				}
				if req.Type != nil {
					r.Type = *req.Type
				}
				if req.Condition != nil {
					r.Condition = *req.Condition
				}
				if req.Action != nil {
					r.Action = *req.Action
				}
				if req.ActionValue != nil {
					r.ActionValue = *req.ActionValue
				}
				if req.Priority != nil {
					r.Priority = *req.Priority
				}
				if req.Enabled != nil {
					r.Enabled = *req.Enabled
				}
				if req.SendNotification != nil {
					r.SendNotification = *req.SendNotification
				}
			})
			if errors.Is(err, automation.ErrRuleNotFound) {
				c.JSON(404, gin.H{"error": "Rule not found"})
				return
			}
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			if rule.Enabled {
				if err := taskqueue.EnqueueRuleEvaluation(rule.ID); err != nil {
					log.Printf("WEB: failed to enqueue evaluation for rule %s: %v", rule.ID, err)
				}
			}
			c.JSON(200, rule)
		})

		automations.DELETE("/rules/:id", func(c *gin.Context) {
			id := c.Param("id")
			if err := ruleStore.Delete(c, id); err != nil {
				if errors.Is(err, automation.ErrRuleNotFound) {
					c.JSON(404, gin.H{"error": "Rule not found"})
					return
				}
				c.JSON(500, gin.H{"error": "Failed to delete rule"})
				return
			}
			engine.Forget(id)
			c.JSON(200, gin.H{"message": "Rule deleted"})
		})

		automations.POST("/rules/:id/toggle", func(c *gin.Context) {
			rule, err := ruleStore.Get(c, c.Param("id"))
			if errors.Is(err, automation.ErrRuleNotFound) {
				c.JSON(404, gin.H{"error": "Rule not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch rule"})
				return
			}
			updated, err := ruleStore.SetEnabled(c, rule.ID, !rule.Enabled)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to toggle rule"})
				return
			}
			if updated.Enabled {
				if err := taskqueue.EnqueueRuleEvaluation(updated.ID); err != nil {
					log.Printf("WEB: failed to enqueue evaluation for rule %s: %v", updated.ID, err)
				}
			}
			c.JSON(200, updated)
		})

		automations.POST("/rules/:id/trigger", func(c *gin.Context) {
			if _, err := ruleStore.Get(c, c.Param("id")); err != nil {
				c.JSON(404, gin.H{"error": "Rule not found"})
				return
			}
			if err := taskqueue.EnqueueRuleEvaluation(c.Param("id")); err != nil {
				c.JSON(500, gin.H{"error": "Failed to queue evaluation"})
				return
			}
			c.JSON(202, gin.H{"message": "Evaluation queued"})
		})

		automations.GET("/templates", func(c *gin.Context) {
			c.JSON(200, gin.H{"templates": automation.TemplateNames()})
		})

		automations.POST("/templates/:name", func(c *gin.Context) {
			tpl, ok := automation.Template(c.Param("name"))
			if !ok {
				c.JSON(404, gin.H{"error": "Template not found"})
				return
			}
			rule, err := ruleStore.Create(c, tpl)
			if err != nil {
				c.JSON(500, gin.H{"error": err.Error()})
				return
			}
			c.JSON(201, rule)
		})

		automations.GET("/history", func(c *gin.Context) {
			entries, err := dbConn.GetActivityLogsByType(c, models.ActivityAutomation, 100)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch history"})
				return
			}
			c.JSON(200, entries)
		})

		automations.GET("/history/stats", func(c *gin.Context) {
			now := time.Now()
			midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			count, err := dbConn.CountActivitySince(c, models.ActivityAutomation, midnight)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch history stats"})
				return
			}
			c.JSON(200, gin.H{"executedToday": count})
		})

		automations.DELETE("/history", func(c *gin.Context) {
			if err := dbConn.ClearActivityByType(c, models.ActivityAutomation); err != nil {
				log.Printf("WEB: failed to clear execution history: %v", err)
				c.JSON(500, gin.H{"error": "Failed to clear history"})
				return
			}
			c.JSON(200, gin.H{"message": "Execution history cleared"})
		})
	}
}
