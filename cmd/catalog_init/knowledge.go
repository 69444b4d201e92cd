package main

import (
	"context"

	"github.com/grupoevolution/tiktokconteudos/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

var knowledges = []sdk.NL2SQLKnowledgeCreateRequest{
	{Type: "glossary", Key: "assignment", Value: []string{"a row of the assignments table: one catalog item given to one team member for one work day"}},
	{Type: "glossary", Key: "category", Value: []string{"one of validated, apparel, apparel-music or new; validated items are proven sellers, new items have not been tested"}},
	{Type: "glossary", Key: "plan", Value: []string{"a weekly distribution identified by plan_id, covering five consecutive days"}},

	{Type: "synonyms", Key: "member/employee/creator/who", Value: []string{"team member name"}, AssociateTables: []string{"assignments,member_name"}},
	{Type: "synonyms", Key: "product/card/item", Value: []string{"catalog item"}, AssociateTables: []string{"items,id"}},
	{Type: "synonyms", Key: "day/date/when", Value: []string{"assignment work day"}, AssociateTables: []string{"assignments,date"}},

	{Type: "logic", Key: "join assignments to items through assignments.item_id = items.id", Value: []string{"JOIN items ON assignments.item_id = items.id"}},
	{Type: "logic", Key: "a re-published plan appends its rows again, count distinct (plan_id, member_id, date, item_id)", Value: []string{"deduplicate republished rows"}},

	{Type: "case_library", Key: "how many items did each member get this week", Value: []string{"SELECT member_name, COUNT(DISTINCT date, item_id) FROM assignments WHERE date >= DATE_SUB(CURDATE(), INTERVAL WEEKDAY(CURDATE()) DAY) GROUP BY member_name"}},
	{Type: "case_library", Key: "most used items", Value: []string{"SELECT item_id, COUNT(DISTINCT plan_id, member_id, date) AS uses FROM assignments GROUP BY item_id ORDER BY uses DESC LIMIT 10"}},
	{Type: "case_library", Key: "category mix per day", Value: []string{"SELECT date, category, COUNT(*) FROM assignments GROUP BY date, category ORDER BY date"}},
}

func initKnowledge(ctx context.Context, client *sdk.RawClient) error {
	for _, k := range knowledges {
		resp, err := client.CreateKnowledge(ctx, &k)
		if err != nil {
			if isDuplicate(err) {
				logger.Info("knowledge.exists", "type", k.Type, "key", k.Key)
				continue
			}
			return err
		}
		logger.Info("knowledge.created", "type", k.Type, "key", k.Key, "id", resp.ID)
	}
	return nil
}
