package main

import (
	"fmt"

	"github.com/spf13/cobra"

	krl "github.com/Sylent-Sys/krl-data-scraper-w-analyze"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Finds through trains or transfer pairings across the hub",
	RunE:  route,
}

var (
	routeFrom    string
	routeTo      string
	routeHub     string
	routePre     string
	routePost    string
	routeDir     string
	routeMaxWait int
	routeOrder   string
	routeDesc    bool
	routeLimit   int
)

func init() {
	routeCmd.Flags().StringVarP(&routeFrom, "from", "f", "", "Boarding (via) station")
	routeCmd.Flags().StringVarP(&routeTo, "to", "t", "", "Destination station")
	routeCmd.Flags().StringVarP(&routeHub, "hub", "", "", "Hub station (defaults to config)")
	routeCmd.Flags().StringVarP(&routePre, "pre", "", "", "Pre-hub dataset directory")
	routeCmd.Flags().StringVarP(&routePost, "post", "", "", "Post-hub dataset directory")
	routeCmd.Flags().StringVarP(&routeDir, "dir", "d", "", "Single dataset directory for both sides")
	routeCmd.Flags().IntVarP(&routeMaxWait, "max-wait", "w", -1, "Maximum transfer wait in minutes (-1 for no bound)")
	routeCmd.Flags().StringVarP(&routeOrder, "order", "", krl.OrderByWait, "Transfer ordering: wait or depart")
	routeCmd.Flags().BoolVarP(&routeDesc, "desc", "", false, "Reverse the result order")
	routeCmd.Flags().IntVarP(&routeLimit, "limit", "l", 0, "Limit the number of results (0 for unlimited)")
}

func route(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	query := krl.RouteQuery{
		Hub:     routeHub,
		Via:     routeFrom,
		Dest:    routeTo,
		MaxWait: routeMaxWait,
		OrderBy: routeOrder,
		Desc:    routeDesc,
		Limit:   routeLimit,
	}
	if query.Hub == "" {
		query.Hub = cfg.Route.Hub
	}

	preDir, postDir := routePre, routePost
	if routeDir != "" {
		preDir, postDir = routeDir, routeDir
	}
	if preDir == "" || postDir == "" {
		return fmt.Errorf("either --dir or both --pre and --post are required")
	}

	pre, err := loadRecords(preDir, "")
	if err != nil {
		return err
	}
	post := pre
	if postDir != preDir {
		post, err = loadRecords(postDir, "")
		if err != nil {
			return err
		}
	}

	through, err := krl.FindThrough(pre, query)
	if err != nil {
		return err
	}
	if len(through) > 0 {
		printThrough(through)
		return nil
	}

	pairs, err := krl.MatchTransfers(pre, post, query)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		fmt.Println("no connection found")
		return nil
	}
	printTransfers(pairs)

	return nil
}

func printThrough(results []model.ThroughResult) {
	fmt.Printf("%d through trains:\n", len(results))
	for _, r := range results {
		fmt.Printf("%s %s (%s) departs %s, at hub %s\n",
			r.TrainID, r.KaName, r.RouteName, r.DepartViaTime, r.HubTime)
	}
}

func printTransfers(pairs []model.TransferPair) {
	fmt.Printf("%d transfer options:\n", len(pairs))
	for _, p := range pairs {
		arrive := p.ArriveDest
		if arrive == "" {
			arrive = "?"
		}
		fmt.Printf("%s dep %s -> hub %s | wait %d min | %s dep %s -> arr %s\n",
			p.InboundTrainID, p.DepartVia, p.ArriveHub,
			p.WaitMin,
			p.OutboundTrainID, p.DepartHub, arrive)
	}
}
